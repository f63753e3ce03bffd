package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type timesheetRepository struct {
	s *Store
}

func NewTimesheetRepository(s *Store) timesheet.TimesheetRepository {
	return &timesheetRepository{s: s}
}

func (r *timesheetRepository) Create(ctx context.Context, t timesheet.Timesheet) (timesheet.Timesheet, error) {
	defer r.s.lock(ctx)()

	if t.ID == "" {
		t.ID = newID()
	}
	now := r.s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.timesheets[t.ID] = t
	return r.withEmployee(t), nil
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.timesheets[id]
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return r.withEmployee(t), nil
}

func (r *timesheetRepository) List(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.Timesheet, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	from, hasFrom := parseOptionalDate(filter.From)
	to, hasTo := parseOptionalDate(filter.To)

	var rows []timesheet.Timesheet
	for _, t := range r.s.timesheets {
		if filter.EmployeeID != nil && t.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(t.Status) != *filter.Status {
			continue
		}
		if hasFrom && t.Date.Before(from) {
			continue
		}
		if hasTo && t.Date.After(to) {
			continue
		}
		rows = append(rows, r.withEmployee(t))
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	return paginate(rows, filter.Page, filter.Limit), int64(len(rows)), nil
}

func (r *timesheetRepository) Update(ctx context.Context, t timesheet.Timesheet) (timesheet.Timesheet, error) {
	defer r.s.lock(ctx)()

	existing, ok := r.s.timesheets[t.ID]
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	if existing.Status != timesheet.StatusPending {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotPending
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = r.s.now()
	t.EmployeeName = nil
	r.s.timesheets[t.ID] = t
	return r.withEmployee(t), nil
}

func (r *timesheetRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	existing, ok := r.s.timesheets[id]
	if !ok {
		return timesheet.ErrTimesheetNotFound
	}
	if existing.Status != timesheet.StatusPending {
		return timesheet.ErrTimesheetNotPending
	}
	delete(r.s.timesheets, id)
	return nil
}

// withEmployee must be called with the store lock held.
func (r *timesheetRepository) withEmployee(t timesheet.Timesheet) timesheet.Timesheet {
	if e, ok := r.s.employees[t.EmployeeID]; ok {
		name := e.Name
		t.EmployeeName = &name
	}
	return t
}

func parseOptionalDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return validator.IsValidDate(*s)
}
