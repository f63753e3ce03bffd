package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, name, email, position, department, salary, hourly_rate, status, hire_date, termination_date,
	phone, address_street, address_city, address_state, address_postal, address_country,
	tax_id, filing_status, tax_allowances,
	health_insurance, dental_insurance, retirement_plan, life_insurance,
	created_at, updated_at, deleted_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Position, &e.Department, &e.Salary, &e.HourlyRate, &e.Status,
		&e.HireDate, &e.TerminationDate,
		&e.Phone, &e.Address.Street, &e.Address.City, &e.Address.State, &e.Address.PostalCode, &e.Address.Country,
		&e.TaxInfo.TaxID, &e.TaxInfo.FilingStatus, &e.TaxInfo.Allowances,
		&e.Benefits.HealthInsurance, &e.Benefits.DentalInsurance, &e.Benefits.RetirementPlan, &e.Benefits.LifeInsurance,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	return e, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, name, email, position, department, salary, hourly_rate, status, hire_date, termination_date,
			phone, address_street, address_city, address_state, address_postal, address_country,
			tax_id, filing_status, tax_allowances,
			health_insurance, dental_insurance, retirement_plan, life_insurance
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16,
			$17, $18, $19,
			$20, $21, $22, $23
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newID(), e.Name, e.Email, e.Position, e.Department, e.Salary, e.HourlyRate, e.Status, e.HireDate, e.TerminationDate,
		e.Phone, e.Address.Street, e.Address.City, e.Address.State, e.Address.PostalCode, e.Address.Country,
		e.TaxInfo.TaxID, e.TaxInfo.FilingStatus, e.TaxInfo.Allowances,
		e.Benefits.HealthInsurance, e.Benefits.DentalInsurance, e.Benefits.RetirementPlan, e.Benefits.LifeInsurance,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !isUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND deleted_at IS NULL`

	found, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return found, nil
}

// ExistsByEmail implements employee.EmployeeRepository. Soft-deleted rows keep
// their address reserved, matching the unique index.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) AND ($2::uuid IS NULL OR id <> $2::uuid))`

	var exists bool
	if err := q.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(department) = LOWER($%d)", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE %s
		ORDER BY name ASC, id ASC
		LIMIT $%d OFFSET $%d`, employeeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan employees: %w", err)
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			name = $2, email = $3, position = $4, department = $5, salary = $6, hourly_rate = $7,
			status = $8, hire_date = $9, termination_date = $10,
			phone = $11, address_street = $12, address_city = $13, address_state = $14,
			address_postal = $15, address_country = $16,
			tax_id = $17, filing_status = $18, tax_allowances = $19,
			health_insurance = $20, dental_insurance = $21, retirement_plan = $22, life_insurance = $23,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		e.ID, e.Name, e.Email, e.Position, e.Department, e.Salary, e.HourlyRate,
		e.Status, e.HireDate, e.TerminationDate,
		e.Phone, e.Address.Street, e.Address.City, e.Address.State,
		e.Address.PostalCode, e.Address.Country,
		e.TaxInfo.TaxID, e.TaxInfo.FilingStatus, e.TaxInfo.Allowances,
		e.Benefits.HealthInsurance, e.Benefits.DentalInsurance, e.Benefits.RetirementPlan, e.Benefits.LifeInsurance,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", e.ID, err)
	}
	return updated, nil
}

// SoftDelete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET status = $2,
			termination_date = COALESCE(termination_date, CURRENT_DATE),
			deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, employee.StatusTerminated)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// GetForPayroll implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetForPayroll(ctx context.Context, ids []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var (
		rows pgx.Rows
		err  error
	)
	if len(ids) == 0 {
		query := `SELECT ` + employeeColumns + ` FROM employees
			WHERE status = $1 AND deleted_at IS NULL ORDER BY name ASC`
		rows, err = q.Query(ctx, query, employee.StatusActive)
	} else {
		valid := make([]string, 0, len(ids))
		for _, id := range ids {
			if isUUID(id) {
				valid = append(valid, id)
			}
		}
		query := `SELECT ` + employeeColumns + ` FROM employees
			WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL ORDER BY name ASC`
		rows, err = q.Query(ctx, query, valid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employees for payroll: %w", err)
	}

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}
	return employees, nil
}
