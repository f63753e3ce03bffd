package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the pay frequency of a run.
type Type string

const (
	TypeWeekly   Type = "weekly"
	TypeBiweekly Type = "biweekly"
	TypeMonthly  Type = "monthly"
)

func (t Type) IsValid() bool {
	return t.PeriodsPerYear() > 0
}

// PeriodsPerYear is the divisor applied to an annual salary.
func (t Type) PeriodsPerYear() int64 {
	switch t {
	case TypeWeekly:
		return 52
	case TypeBiweekly:
		return 26
	case TypeMonthly:
		return 12
	}
	return 0
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusPending   PayrollStatus = "pending"
	PayrollStatusProcessed PayrollStatus = "processed"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

var statusTransitions = map[PayrollStatus][]PayrollStatus{
	PayrollStatusDraft:     {PayrollStatusPending, PayrollStatusProcessed, PayrollStatusCancelled},
	PayrollStatusPending:   {PayrollStatusProcessed, PayrollStatusCancelled},
	PayrollStatusProcessed: {PayrollStatusPaid, PayrollStatusCancelled},
}

func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusPending, PayrollStatusProcessed, PayrollStatusPaid, PayrollStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a run in s may move to next. Paid and
// cancelled runs are terminal.
func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ItemStatus returns the status every item of a run in s carries.
func (s PayrollStatus) ItemStatus() ItemStatus {
	switch s {
	case PayrollStatusPaid:
		return ItemStatusPaid
	case PayrollStatusCancelled:
		return ItemStatusCancelled
	}
	return ItemStatusPending
}

type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPaid      ItemStatus = "paid"
	ItemStatusCancelled ItemStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodDirectDeposit PaymentMethod = "direct_deposit"
	PaymentMethodCheck         PaymentMethod = "check"
	PaymentMethodCash          PaymentMethod = "cash"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodDirectDeposit, PaymentMethodCheck, PaymentMethodCash:
		return true
	}
	return false
}

// Payroll is one run over a pay period.
type Payroll struct {
	ID            string
	Reference     string
	Period        string
	StartDate     time.Time
	EndDate       time.Time
	Type          Type
	Status        PayrollStatus
	TotalAmount   decimal.Decimal
	EmployeeCount int
	Deductions    decimal.Decimal
	Taxes         decimal.Decimal
	NetAmount     decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         *string
	CreatedBy     *string
	ProcessedBy   *string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []Item
}

// LineItem is a named custom bonus or deduction.
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Item is one employee's pay within a run.
type Item struct {
	ID               string
	PayrollID        string
	EmployeeID       string
	BaseSalary       decimal.Decimal
	HoursWorked      decimal.Decimal
	OvertimeHours    decimal.Decimal
	OvertimeRate     decimal.Decimal
	OvertimePay      decimal.Decimal
	Bonuses          decimal.Decimal
	CustomBonuses    []LineItem
	Allowances       decimal.Decimal
	Deductions       decimal.Decimal
	CustomDeductions []LineItem
	Taxes            decimal.Decimal
	NetPay           decimal.Decimal
	Status           ItemStatus
	// Adjustment is the operator input the item was computed from, kept so
	// draft runs can be recomputed.
	Adjustment Adjustment

	// Joined fields
	EmployeeName  *string
	EmployeeEmail *string
	Department    *string
	Position      *string
}

// GrossPay is pay before taxes and deductions.
func (i Item) GrossPay() decimal.Decimal {
	return i.BaseSalary.
		Add(i.OvertimePay).
		Add(i.Bonuses).
		Add(sumLines(i.CustomBonuses)).
		Add(i.Allowances)
}

// TimesheetSummary is the approved-hours rollup for one employee in a period.
type TimesheetSummary struct {
	EmployeeID    string
	TotalHours    float64
	OvertimeHours float64
}
