package payroll

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs.ToMap()
}

func TestCreatePayrollRequest_Defaults(t *testing.T) {
	req := CreatePayrollRequest{StartDate: "2024-03-01", EndDate: "2024-03-31", Type: " Monthly "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "monthly", req.Type)
	assert.Equal(t, "2024-03-01 - 2024-03-31", req.Period)
	assert.Equal(t, string(PaymentMethodDirectDeposit), req.PaymentMethod)
}

func TestCreatePayrollRequest_Invalid(t *testing.T) {
	req := CreatePayrollRequest{
		StartDate:     "2024-04-01",
		EndDate:       "2024-03-01",
		Type:          "daily",
		PaymentMethod: "crypto",
		Adjustments: []Adjustment{
			{EmployeeID: "e1", Bonuses: d("-1")},
			{EmployeeID: "e1", CustomDeductions: []LineItem{{Amount: d("5")}}},
		},
	}
	got := fields(t, req.Validate())
	assert.Equal(t, ErrInvalidPeriod.Error(), got["endDate"])
	assert.Equal(t, ErrInvalidType.Error(), got["type"])
	assert.Equal(t, ErrInvalidPaymentMethod.Error(), got["paymentMethod"])
	assert.Equal(t, ErrNegativeAmount.Error(), got["adjustments[0].bonuses"])
	assert.Contains(t, got, "adjustments[1].employeeId")
	assert.Contains(t, got, "adjustments[1].customDeductions[0].name")
}

func TestProcessPayrollRequest_Validate(t *testing.T) {
	req := ProcessPayrollRequest{}
	require.NoError(t, req.Validate())
	assert.Equal(t, string(PayrollStatusProcessed), req.Status)

	req = ProcessPayrollRequest{Status: "cancelled"}
	assert.Contains(t, fields(t, req.Validate()), "status")
}
