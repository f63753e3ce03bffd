package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	// GetByID hides soft-deleted employees.
	GetByID(ctx context.Context, id string) (Employee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	SoftDelete(ctx context.Context, id string) error
	// GetForPayroll returns live employees in the given id set, or every active
	// employee when ids is empty.
	GetForPayroll(ctx context.Context, ids []string) ([]Employee, error)
}
