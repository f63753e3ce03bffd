package payroll

import "context"

type PayrollService interface {
	// Preview computes a run without persisting it.
	Preview(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	Create(ctx context.Context, req CreatePayrollRequest, createdBy string) (PayrollResponse, error)
	Get(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	Update(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error

	Process(ctx context.Context, req ProcessPayrollRequest, processedBy string) (PayrollResponse, error)
	Cancel(ctx context.Context, id string, cancelledBy string) (PayrollResponse, error)

	Payslip(ctx context.Context, payrollID, employeeID string) (PayslipResponse, error)
}
