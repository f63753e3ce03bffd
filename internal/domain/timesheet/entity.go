package timesheet

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Timesheet is one day of worked hours for one employee. TotalHours and
// OvertimeHours are always derived from the clock fields by Calculate.
type Timesheet struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	StartTime       string
	EndTime         string
	BreakTime       int
	TotalHours      float64
	OvertimeHours   float64
	Project         *string
	Description     *string
	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName *string
}

// Recalculate refreshes the derived hour fields from the clock fields.
func (t *Timesheet) Recalculate() error {
	hours, err := Calculate(t.StartTime, t.EndTime, t.BreakTime)
	if err != nil {
		return err
	}
	t.TotalHours = hours.Total
	t.OvertimeHours = hours.Overtime
	return nil
}
