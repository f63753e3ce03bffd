package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	defer r.s.lock(ctx)()

	if r.emailTaken(e.Email, "") {
		return employee.Employee{}, employee.ErrEmailExists
	}
	if e.ID == "" {
		e.ID = newID()
	}
	now := r.s.now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok || e.IsDeleted() {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	exclude := ""
	if excludeID != nil {
		exclude = *excludeID
	}
	return r.emailTaken(email, exclude), nil
}

// emailTaken must be called with the store lock held. Soft-deleted rows keep
// their email reserved, matching the unique index in PostgreSQL.
func (r *employeeRepository) emailTaken(email, excludeID string) bool {
	for id, e := range r.s.employees {
		if id != excludeID && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var search string
	if filter.Search != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.Search))
	}

	var rows []employee.Employee
	for _, e := range r.s.employees {
		if e.IsDeleted() {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		if filter.Department != nil && !strings.EqualFold(deref(e.Department), *filter.Department) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Email), search) {
			continue
		}
		rows = append(rows, e)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})

	return paginate(rows, filter.Page, filter.Limit), int64(len(rows)), nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	defer r.s.lock(ctx)()

	existing, ok := r.s.employees[e.ID]
	if !ok || existing.IsDeleted() {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if r.emailTaken(e.Email, e.ID) {
		return employee.Employee{}, employee.ErrEmailExists
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) SoftDelete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	e, ok := r.s.employees[id]
	if !ok || e.IsDeleted() {
		return employee.ErrEmployeeNotFound
	}
	now := r.s.now()
	e.Status = employee.StatusTerminated
	if e.TerminationDate == nil {
		today := now.Truncate(24 * time.Hour)
		e.TerminationDate = &today
	}
	e.DeletedAt = &now
	e.UpdatedAt = now
	r.s.employees[id] = e
	return nil
}

func (r *employeeRepository) GetForPayroll(ctx context.Context, ids []string) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var rows []employee.Employee
	for _, e := range r.s.employees {
		if e.IsDeleted() {
			continue
		}
		if len(ids) > 0 && !wanted[e.ID] {
			continue
		}
		if len(ids) == 0 && e.Status != employee.StatusActive {
			continue
		}
		rows = append(rows, e)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
