package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListEmployees implements report.ReportRepository.
func (r *reportRepositoryImpl) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}
	return employees, nil
}

// ListTimesheets implements report.ReportRepository.
func (r *reportRepositoryImpl) ListTimesheets(ctx context.Context) ([]timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM ` + timesheetFrom + ` ORDER BY t.date ASC, t.created_at ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	sheets, err := collectTimesheets(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan timesheets: %w", err)
	}
	return sheets, nil
}

// ListPayrolls implements report.ReportRepository. Items are not loaded.
func (r *reportRepositoryImpl) ListPayrolls(ctx context.Context) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+payrollColumns+` FROM payrolls ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	payrolls, err := collectPayrolls(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan payrolls: %w", err)
	}
	return payrolls, nil
}
