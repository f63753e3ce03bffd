package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AddressDTO struct {
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
}

type TaxInfoDTO struct {
	TaxID        *string `json:"taxId,omitempty"`
	FilingStatus *string `json:"filingStatus,omitempty"`
	Allowances   int     `json:"allowances"`
}

type BenefitsDTO struct {
	HealthInsurance bool `json:"healthInsurance"`
	DentalInsurance bool `json:"dentalInsurance"`
	RetirementPlan  bool `json:"retirementPlan"`
	LifeInsurance   bool `json:"lifeInsurance"`
}

type CreateEmployeeRequest struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Position        *string          `json:"position,omitempty"`
	Department      *string          `json:"department,omitempty"`
	Salary          *decimal.Decimal `json:"salary"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	Status          string           `json:"status,omitempty"`
	HireDate        string           `json:"hireDate"`
	TerminationDate *string          `json:"terminationDate,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	Address         *AddressDTO      `json:"address,omitempty"`
	TaxInfo         *TaxInfoDTO      `json:"taxInfo,omitempty"`
	Benefits        *BenefitsDTO     `json:"benefits,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Name == "" {
		errs.Add("name", "name is required")
	}
	if r.Email == "" {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", ErrInvalidEmail.Error())
	}
	if r.Salary == nil {
		errs.Add("salary", ErrSalaryRequired.Error())
	} else if r.Salary.IsNegative() {
		errs.Add("salary", ErrNegativeSalary.Error())
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs.Add("hourlyRate", ErrNegativeHourlyRate.Error())
	}
	if r.Status == "" {
		r.Status = string(StatusActive)
	} else if !Status(r.Status).IsValid() {
		errs.Add("status", ErrInvalidStatus.Error())
	}

	hireDate, hireOK := validator.IsValidDate(r.HireDate)
	if validator.IsEmpty(r.HireDate) {
		errs.Add("hireDate", "hireDate is required")
	} else if !hireOK {
		errs.Add("hireDate", "hireDate must be in YYYY-MM-DD format")
	}
	if r.TerminationDate != nil {
		validateTermination(&errs, hireDate, hireOK, *r.TerminationDate)
	}
	if r.TaxInfo != nil && r.TaxInfo.Allowances < 0 {
		errs.Add("taxInfo.allowances", ErrNegativeTaxAllowances.Error())
	}

	return errs.Err()
}

// UpdateEmployeeRequest is a partial update; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty"`
	Email           *string          `json:"email,omitempty"`
	Position        *string          `json:"position,omitempty"`
	Department      *string          `json:"department,omitempty"`
	Salary          *decimal.Decimal `json:"salary,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	Status          *string          `json:"status,omitempty"`
	HireDate        *string          `json:"hireDate,omitempty"`
	TerminationDate *string          `json:"terminationDate,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	Address         *AddressDTO      `json:"address,omitempty"`
	TaxInfo         *TaxInfoDTO      `json:"taxInfo,omitempty"`
	Benefits        *BenefitsDTO     `json:"benefits,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
		if trimmed == "" {
			errs.Add("name", "name must not be empty")
		}
	}
	if r.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &normalized
		if !validator.IsValidEmail(normalized) {
			errs.Add("email", ErrInvalidEmail.Error())
		}
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs.Add("salary", ErrNegativeSalary.Error())
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs.Add("hourlyRate", ErrNegativeHourlyRate.Error())
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs.Add("status", ErrInvalidStatus.Error())
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hireDate", "hireDate must be in YYYY-MM-DD format")
		}
	}
	if r.TerminationDate != nil {
		if _, ok := validator.IsValidDate(*r.TerminationDate); !ok {
			errs.Add("terminationDate", "terminationDate must be in YYYY-MM-DD format")
		}
	}
	if r.TaxInfo != nil && r.TaxInfo.Allowances < 0 {
		errs.Add("taxInfo.allowances", ErrNegativeTaxAllowances.Error())
	}

	return errs.Err()
}

func validateTermination(errs *validator.ValidationErrors, hireDate time.Time, hireOK bool, termination string) {
	terminationDate, ok := validator.IsValidDate(termination)
	if !ok {
		errs.Add("terminationDate", "terminationDate must be in YYYY-MM-DD format")
		return
	}
	if hireOK && terminationDate.Before(hireDate) {
		errs.Add("terminationDate", ErrTerminationBeforeHire.Error())
	}
}

type EmployeeFilter struct {
	Status     *string `json:"status,omitempty"`
	Department *string `json:"department,omitempty"`
	Search     *string `json:"search,omitempty"` // name or email, case-insensitive

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
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
		errs.Add("status", ErrInvalidStatus.Error())
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Position        string           `json:"position"`
	Department      string           `json:"department"`
	Salary          decimal.Decimal  `json:"salary"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	Status          string           `json:"status"`
	HireDate        string           `json:"hireDate"`
	TerminationDate *string          `json:"terminationDate,omitempty"`
	Phone           string           `json:"phone"`
	Address         AddressDTO       `json:"address"`
	TaxInfo         *TaxInfoDTO      `json:"taxInfo,omitempty"`
	Benefits        BenefitsDTO      `json:"benefits"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
}

// WithoutTaxInfo strips the restricted section for callers lacking employee.tax_info.
func (r EmployeeResponse) WithoutTaxInfo() EmployeeResponse {
	r.TaxInfo = nil
	return r
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"totalCount"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

func (r ListEmployeeResponse) WithoutTaxInfo() ListEmployeeResponse {
	out := make([]EmployeeResponse, len(r.Employees))
	for i, e := range r.Employees {
		out[i] = e.WithoutTaxInfo()
	}
	r.Employees = out
	return r
}
