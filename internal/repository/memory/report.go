package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
)

type reportRepository struct {
	s *Store
}

func NewReportRepository(s *Store) report.ReportRepository {
	return &reportRepository{s: s}
}

func (r *reportRepository) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]employee.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		rows = append(rows, e)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (r *reportRepository) ListTimesheets(ctx context.Context) ([]timesheet.Timesheet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]timesheet.Timesheet, 0, len(r.s.timesheets))
	for _, t := range r.s.timesheets {
		if e, ok := r.s.employees[t.EmployeeID]; ok {
			name := e.Name
			t.EmployeeName = &name
		}
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (r *reportRepository) ListPayrolls(ctx context.Context) ([]payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]payroll.Payroll, 0, len(r.s.payrolls))
	for _, p := range r.s.payrolls {
		p.Items = slices.Clone(p.Items)
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}
