package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmailExists            = errors.New("email already registered")
	ErrInvalidEmail           = errors.New("email must be a valid email address")
	ErrSalaryRequired         = errors.New("salary is required")
	ErrNegativeSalary         = errors.New("salary must not be negative")
	ErrNegativeHourlyRate     = errors.New("hourly rate must not be negative")
	ErrInvalidStatus          = errors.New("status must be one of: active, inactive, terminated, on-leave")
	ErrTerminationBeforeHire  = errors.New("termination date must not be before hire date")
	ErrNegativeTaxAllowances  = errors.New("tax allowances must not be negative")
	ErrEmployeeAlreadyDeleted = errors.New("employee already deleted")
)
