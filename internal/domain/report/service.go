package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	PayrollSummary(ctx context.Context) (PayrollSummaryReport, error)
	TimesheetSummary(ctx context.Context) (TimesheetSummaryReport, error)
	DepartmentSummary(ctx context.Context) ([]DepartmentSummary, error)
	TopEmployees(ctx context.Context, limit int) ([]EmployeeHours, error)
	OvertimeLeaders(ctx context.Context, limit int) ([]EmployeeHours, error)
	TimesheetTrends(ctx context.Context) ([]MonthlyTrend, error)

	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
}
