package payroll

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Adjustment is the per-employee operator input for a run. Nil overrides fall
// back to timesheet hours and the configured rates.
type Adjustment struct {
	EmployeeID       string           `json:"employeeId"`
	HoursWorked      *decimal.Decimal `json:"hoursWorked,omitempty"`
	OvertimeHours    *decimal.Decimal `json:"overtimeHours,omitempty"`
	OvertimeRate     *decimal.Decimal `json:"overtimeRate,omitempty"`
	Bonuses          decimal.Decimal  `json:"bonuses"`
	CustomBonuses    []LineItem       `json:"customBonuses,omitempty"`
	Allowances       decimal.Decimal  `json:"allowances"`
	Deductions       *decimal.Decimal `json:"deductions,omitempty"`
	CustomDeductions []LineItem       `json:"customDeductions,omitempty"`
	Taxes            *decimal.Decimal `json:"taxes,omitempty"`
}

func (a Adjustment) validate(errs *validator.ValidationErrors, prefix string) {
	if validator.IsEmpty(a.EmployeeID) {
		errs.Add(prefix+".employeeId", "employeeId is required")
	}
	for name, v := range map[string]*decimal.Decimal{
		"hoursWorked":   a.HoursWorked,
		"overtimeHours": a.OvertimeHours,
		"overtimeRate":  a.OvertimeRate,
		"deductions":    a.Deductions,
		"taxes":         a.Taxes,
	} {
		if v != nil && v.IsNegative() {
			errs.Add(prefix+"."+name, ErrNegativeAmount.Error())
		}
	}
	if a.Bonuses.IsNegative() {
		errs.Add(prefix+".bonuses", ErrNegativeAmount.Error())
	}
	if a.Allowances.IsNegative() {
		errs.Add(prefix+".allowances", ErrNegativeAmount.Error())
	}
	for i, l := range a.CustomBonuses {
		validateLine(errs, fmt.Sprintf("%s.customBonuses[%d]", prefix, i), l)
	}
	for i, l := range a.CustomDeductions {
		validateLine(errs, fmt.Sprintf("%s.customDeductions[%d]", prefix, i), l)
	}
}

func validateLine(errs *validator.ValidationErrors, field string, l LineItem) {
	if validator.IsEmpty(l.Name) {
		errs.Add(field+".name", "name is required")
	}
	if l.Amount.IsNegative() {
		errs.Add(field+".amount", ErrNegativeAmount.Error())
	}
}

func validateAdjustments(errs *validator.ValidationErrors, adjustments []Adjustment) {
	seen := make(map[string]bool, len(adjustments))
	for i, a := range adjustments {
		prefix := fmt.Sprintf("adjustments[%d]", i)
		a.validate(errs, prefix)
		if seen[a.EmployeeID] {
			errs.Add(prefix+".employeeId", "duplicate adjustment for employee")
		}
		seen[a.EmployeeID] = true
	}
}

// CreatePayrollRequest starts a run. It also drives the preview endpoint.
type CreatePayrollRequest struct {
	Period        string       `json:"period,omitempty"`
	StartDate     string       `json:"startDate"`
	EndDate       string       `json:"endDate"`
	Type          string       `json:"type"`
	EmployeeIDs   []string     `json:"employeeIds,omitempty"`
	Adjustments   []Adjustment `json:"adjustments,omitempty"`
	PaymentMethod string       `json:"paymentMethod,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if startOK && endOK && start.After(end) {
		errs.Add("endDate", ErrInvalidPeriod.Error())
	}

	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if !Type(r.Type).IsValid() {
		errs.Add("type", ErrInvalidType.Error())
	}

	if r.PaymentMethod == "" {
		r.PaymentMethod = string(PaymentMethodDirectDeposit)
	} else if !PaymentMethod(r.PaymentMethod).IsValid() {
		errs.Add("paymentMethod", ErrInvalidPaymentMethod.Error())
	}

	r.Period = strings.TrimSpace(r.Period)
	if r.Period == "" && startOK && endOK {
		r.Period = r.StartDate + " - " + r.EndDate
	}

	validateAdjustments(&errs, r.Adjustments)

	return errs.Err()
}

// UpdatePayrollRequest edits a draft run. Adjustments replace the stored
// adjustment of the employees they name; other employees keep theirs.
type UpdatePayrollRequest struct {
	ID            string       `json:"-"`
	Period        *string      `json:"period,omitempty"`
	PaymentMethod *string      `json:"paymentMethod,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	Adjustments   []Adjustment `json:"adjustments,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Period != nil {
		trimmed := strings.TrimSpace(*r.Period)
		r.Period = &trimmed
		if trimmed == "" {
			errs.Add("period", "period must not be empty")
		}
	}
	if r.PaymentMethod != nil && !PaymentMethod(*r.PaymentMethod).IsValid() {
		errs.Add("paymentMethod", ErrInvalidPaymentMethod.Error())
	}
	validateAdjustments(&errs, r.Adjustments)

	return errs.Err()
}

type ProcessPayrollRequest struct {
	ID     string `json:"-"`
	Status string `json:"status,omitempty"` // pending, processed or paid
}

func (r *ProcessPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status == "" {
		r.Status = string(PayrollStatusProcessed)
	}
	valid := []string{string(PayrollStatusPending), string(PayrollStatusProcessed), string(PayrollStatusPaid)}
	if !validator.IsInSlice(r.Status, valid) {
		errs.Add("status", "status must be one of: pending, processed, paid")
	}

	return errs.Err()
}

type PayrollFilter struct {
	Status *string `json:"status,omitempty"`
	Type   *string `json:"type,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
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
	if f.Status != nil && !PayrollStatus(*f.Status).IsValid() {
		errs.Add("status", ErrInvalidStatus.Error())
	}
	if f.Type != nil && !Type(*f.Type).IsValid() {
		errs.Add("type", ErrInvalidType.Error())
	}

	return errs.Err()
}

type PayrollItemResponse struct {
	ID               string          `json:"id,omitempty"`
	EmployeeID       string          `json:"employeeId"`
	EmployeeName     *string         `json:"employeeName,omitempty"`
	EmployeeEmail    *string         `json:"employeeEmail,omitempty"`
	Department       *string         `json:"department,omitempty"`
	Position         *string         `json:"position,omitempty"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	HoursWorked      decimal.Decimal `json:"hoursWorked"`
	OvertimeHours    decimal.Decimal `json:"overtimeHours"`
	OvertimeRate     decimal.Decimal `json:"overtimeRate"`
	OvertimePay      decimal.Decimal `json:"overtimePay"`
	Bonuses          decimal.Decimal `json:"bonuses"`
	CustomBonuses    []LineItem      `json:"customBonuses"`
	Allowances       decimal.Decimal `json:"allowances"`
	GrossPay         decimal.Decimal `json:"grossPay"`
	Deductions       decimal.Decimal `json:"deductions"`
	CustomDeductions []LineItem      `json:"customDeductions"`
	Taxes            decimal.Decimal `json:"taxes"`
	NetPay           decimal.Decimal `json:"netPay"`
	Status           string          `json:"status"`
}

type PayrollResponse struct {
	ID            string                `json:"id,omitempty"`
	Reference     string                `json:"reference,omitempty"`
	Period        string                `json:"period"`
	StartDate     string                `json:"startDate"`
	EndDate       string                `json:"endDate"`
	Type          string                `json:"type"`
	Status        string                `json:"status"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	EmployeeCount int                   `json:"employeeCount"`
	Deductions    decimal.Decimal       `json:"deductions"`
	Taxes         decimal.Decimal       `json:"taxes"`
	NetAmount     decimal.Decimal       `json:"netAmount"`
	PaymentMethod string                `json:"paymentMethod"`
	Notes         *string               `json:"notes,omitempty"`
	CreatedBy     *string               `json:"createdBy,omitempty"`
	ProcessedBy   *string               `json:"processedBy,omitempty"`
	ProcessedAt   *string               `json:"processedAt,omitempty"`
	CreatedAt     string                `json:"createdAt,omitempty"`
	UpdatedAt     string                `json:"updatedAt,omitempty"`
	Items         []PayrollItemResponse `json:"items,omitempty"`
}

type ListPayrollResponse struct {
	Payrolls   []PayrollResponse `json:"payrolls"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// PayslipResponse is one employee's line of a run with the run header.
type PayslipResponse struct {
	Reference     string              `json:"reference"`
	Period        string              `json:"period"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	PaymentMethod string              `json:"paymentMethod"`
	PayrollStatus string              `json:"payrollStatus"`
	Item          PayrollItemResponse `json:"item"`
}
