package employee

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs.ToMap()
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	salary := decimal.NewFromInt(60000)
	req := CreateEmployeeRequest{Name: " Ada ", Email: " Ada@Example.com ", Salary: &salary, HireDate: "2023-01-15"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Ada", req.Name)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, string(StatusActive), req.Status)
}

func TestCreateEmployeeRequest_ValidateSalary(t *testing.T) {
	req := CreateEmployeeRequest{Name: "Ada", Email: "ada@example.com", HireDate: "2023-01-15"}
	assert.Equal(t, ErrSalaryRequired.Error(), validationFields(t, req.Validate())["salary"])

	negative := decimal.NewFromInt(-1)
	req.Salary = &negative
	assert.Equal(t, ErrNegativeSalary.Error(), validationFields(t, req.Validate())["salary"])
}

func TestCreateEmployeeRequest_ValidateDates(t *testing.T) {
	salary := decimal.NewFromInt(1)
	termination := "2022-12-31"
	req := CreateEmployeeRequest{
		Name: "Ada", Email: "ada@example.com", Salary: &salary,
		HireDate: "2023-01-15", TerminationDate: &termination, Status: "retired",
	}
	fields := validationFields(t, req.Validate())
	assert.Equal(t, ErrTerminationBeforeHire.Error(), fields["terminationDate"])
	assert.Equal(t, ErrInvalidStatus.Error(), fields["status"])
}

func TestEmployeeResponse_WithoutTaxInfo(t *testing.T) {
	taxID := "123-45-6789"
	resp := ListEmployeeResponse{Employees: []EmployeeResponse{{ID: "1", TaxInfo: &TaxInfoDTO{TaxID: &taxID}}}}

	redacted := resp.WithoutTaxInfo()
	assert.Nil(t, redacted.Employees[0].TaxInfo)
	assert.NotNil(t, resp.Employees[0].TaxInfo, "original must be untouched")
}
