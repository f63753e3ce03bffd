package report

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
)

// ReportRepository loads full record sets. Soft-deleted employees are
// included so historical rows still join.
type ReportRepository interface {
	ListEmployees(ctx context.Context) ([]employee.Employee, error)
	ListTimesheets(ctx context.Context) ([]timesheet.Timesheet, error)
	ListPayrolls(ctx context.Context) ([]payroll.Payroll, error)
}
