package timesheet

import (
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type CreateTimesheetRequest struct {
	EmployeeID  string  `json:"employeeId"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	BreakTime   int     `json:"breakTime"`
	Project     *string `json:"project,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employeeId", "employeeId is required")
	}
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if !validator.IsValidClock(r.StartTime) {
		errs.Add("startTime", ErrInvalidTimeFormat.Error())
	}
	if !validator.IsValidClock(r.EndTime) {
		errs.Add("endTime", ErrInvalidTimeFormat.Error())
	}
	if r.BreakTime < 0 {
		errs.Add("breakTime", ErrNegativeBreakTime.Error())
	}

	return errs.Err()
}

// UpdateTimesheetRequest is a partial update; nil fields are left untouched.
type UpdateTimesheetRequest struct {
	ID          string  `json:"-"`
	Date        *string `json:"date,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	BreakTime   *int    `json:"breakTime,omitempty"`
	Project     *string `json:"project,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.StartTime != nil && !validator.IsValidClock(*r.StartTime) {
		errs.Add("startTime", ErrInvalidTimeFormat.Error())
	}
	if r.EndTime != nil && !validator.IsValidClock(*r.EndTime) {
		errs.Add("endTime", ErrInvalidTimeFormat.Error())
	}
	if r.BreakTime != nil && *r.BreakTime < 0 {
		errs.Add("breakTime", ErrNegativeBreakTime.Error())
	}

	return errs.Err()
}

type RejectTimesheetRequest struct {
	ID              string `json:"-"`
	RejectionReason string `json:"rejectionReason"`
}

func (r *RejectTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	r.RejectionReason = strings.TrimSpace(r.RejectionReason)
	if r.RejectionReason == "" {
		errs.Add("rejectionReason", ErrRejectionReasonNeeded.Error())
	}

	return errs.Err()
}

type TimesheetFilter struct {
	EmployeeID *string `json:"employeeId,omitempty"`
	Status     *string `json:"status,omitempty"`
	From       *string `json:"from,omitempty"` // YYYY-MM-DD
	To         *string `json:"to,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *TimesheetFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}
	if f.From != nil {
		if _, ok := validator.IsValidDate(*f.From); !ok {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if f.To != nil {
		if _, ok := validator.IsValidDate(*f.To); !ok {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type TimesheetResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employeeId"`
	EmployeeName    *string `json:"employeeName,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	BreakTime       int     `json:"breakTime"`
	TotalHours      float64 `json:"totalHours"`
	OvertimeHours   float64 `json:"overtimeHours"`
	Project         *string `json:"project,omitempty"`
	Description     *string `json:"description,omitempty"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	ApprovedAt      *string `json:"approvedAt,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type ListTimesheetResponse struct {
	Timesheets []TimesheetResponse `json:"timesheets"`
	TotalCount int64               `json:"totalCount"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}
