package payroll

import "errors"

var (
	ErrPayrollNotFound         = errors.New("payroll not found")
	ErrPayrollItemNotFound     = errors.New("employee is not part of this payroll")
	ErrNoEligibleEmployees     = errors.New("no active or selected employees to include in payroll")
	ErrInvalidStatusTransition = errors.New("payroll status transition not allowed")
	ErrPayrollNotEditable      = errors.New("only draft payrolls can be edited")
	ErrPayrollNotDeletable     = errors.New("only draft or cancelled payrolls can be deleted")
	ErrInvalidPeriod           = errors.New("startDate must not be after endDate")
	ErrInvalidType             = errors.New("type must be one of: weekly, biweekly, monthly")
	ErrInvalidPaymentMethod    = errors.New("paymentMethod must be one of: direct_deposit, check, cash")
	ErrInvalidStatus           = errors.New("invalid payroll status")
	ErrInvalidReference        = errors.New("invalid payroll reference")
	ErrReferenceExists         = errors.New("payroll reference already exists")
	ErrNegativeAmount          = errors.New("amount must not be negative")
)
