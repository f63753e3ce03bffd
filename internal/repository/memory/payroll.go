package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.payrolls {
		if existing.Reference == p.Reference {
			return payroll.Payroll{}, payroll.ErrReferenceExists
		}
	}
	if p.ID == "" {
		p.ID = newID()
	}
	now := r.s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Items = r.assignItems(p.ID, p.Items)
	r.s.payrolls[p.ID] = p
	return r.withEmployees(p), nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.withEmployees(p), nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []payroll.Payroll
	for _, p := range r.s.payrolls {
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		if filter.Type != nil && string(p.Type) != *filter.Type {
			continue
		}
		p.Items = nil
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].Reference > rows[j].Reference
	})

	return paginate(rows, filter.Page, filter.Limit), int64(len(rows)), nil
}

func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll, expected payroll.PayrollStatus) error {
	defer r.s.lock(ctx)()

	existing, ok := r.s.payrolls[p.ID]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if existing.Status != expected {
		return payroll.ErrPayrollNotEditable
	}
	existing.Period = p.Period
	existing.PaymentMethod = p.PaymentMethod
	existing.Notes = p.Notes
	existing.TotalAmount = p.TotalAmount
	existing.EmployeeCount = p.EmployeeCount
	existing.Deductions = p.Deductions
	existing.Taxes = p.Taxes
	existing.NetAmount = p.NetAmount
	existing.UpdatedAt = r.s.now()
	r.s.payrolls[p.ID] = existing
	return nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, from, to payroll.PayrollStatus, processedBy *string, processedAt *time.Time) error {
	defer r.s.lock(ctx)()

	existing, ok := r.s.payrolls[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if existing.Status != from {
		return payroll.ErrInvalidStatusTransition
	}
	existing.Status = to
	if processedBy != nil {
		existing.ProcessedBy = processedBy
	}
	if processedAt != nil {
		existing.ProcessedAt = processedAt
	}
	existing.UpdatedAt = r.s.now()
	r.s.payrolls[id] = existing
	return nil
}

func (r *payrollRepository) ReplaceItems(ctx context.Context, payrollID string, items []payroll.Item) error {
	defer r.s.lock(ctx)()

	p, ok := r.s.payrolls[payrollID]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	p.Items = r.assignItems(payrollID, items)
	r.s.payrolls[payrollID] = p
	return nil
}

func (r *payrollRepository) UpdateItemStatuses(ctx context.Context, payrollID string, status payroll.ItemStatus) error {
	defer r.s.lock(ctx)()

	p, ok := r.s.payrolls[payrollID]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	items := slices.Clone(p.Items)
	for i := range items {
		items[i].Status = status
	}
	p.Items = items
	r.s.payrolls[payrollID] = p
	return nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string, allowed ...payroll.PayrollStatus) error {
	defer r.s.lock(ctx)()

	existing, ok := r.s.payrolls[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if len(allowed) > 0 && !slices.Contains(allowed, existing.Status) {
		return payroll.ErrPayrollNotDeletable
	}
	delete(r.s.payrolls, id)
	return nil
}

func (r *payrollRepository) NextReferenceSequence(ctx context.Context, month string) (int64, error) {
	defer r.s.lock(ctx)()

	r.s.counters[month]++
	return r.s.counters[month], nil
}

func (r *payrollRepository) GetTimesheetSummary(ctx context.Context, employeeIDs []string, start, end time.Time) ([]payroll.TimesheetSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}

	sums := make(map[string]*payroll.TimesheetSummary)
	for _, t := range r.s.timesheets {
		if t.Status != timesheet.StatusApproved || !wanted[t.EmployeeID] {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		sum, ok := sums[t.EmployeeID]
		if !ok {
			sum = &payroll.TimesheetSummary{EmployeeID: t.EmployeeID}
			sums[t.EmployeeID] = sum
		}
		sum.TotalHours += t.TotalHours
		sum.OvertimeHours += t.OvertimeHours
	}

	out := make([]payroll.TimesheetSummary, 0, len(sums))
	for _, sum := range sums {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *payrollRepository) assignItems(payrollID string, items []payroll.Item) []payroll.Item {
	out := slices.Clone(items)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = newID()
		}
		out[i].PayrollID = payrollID
		out[i].EmployeeName = nil
		out[i].EmployeeEmail = nil
		out[i].Department = nil
		out[i].Position = nil
	}
	return out
}

// withEmployees must be called with the store lock held. Soft-deleted
// employees still join so historical runs keep their names.
func (r *payrollRepository) withEmployees(p payroll.Payroll) payroll.Payroll {
	items := slices.Clone(p.Items)
	for i := range items {
		if e, ok := r.s.employees[items[i].EmployeeID]; ok {
			name, email := e.Name, e.Email
			items[i].EmployeeName = &name
			items[i].EmployeeEmail = &email
			items[i].Department = e.Department
			items[i].Position = e.Position
		}
	}
	p.Items = items
	return p
}
