package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollColumns = `
	id, reference, period, start_date, end_date, type, status,
	total_amount, employee_count, deductions, taxes, net_amount,
	payment_method, notes, created_by, processed_by, processed_at, created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.Reference, &p.Period, &p.StartDate, &p.EndDate, &p.Type, &p.Status,
		&p.TotalAmount, &p.EmployeeCount, &p.Deductions, &p.Taxes, &p.NetAmount,
		&p.PaymentMethod, &p.Notes, &p.CreatedBy, &p.ProcessedBy, &p.ProcessedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, reference, period, start_date, end_date, type, status,
			total_amount, employee_count, deductions, taxes, net_amount,
			payment_method, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newID(), p.Reference, p.Period, p.StartDate, p.EndDate, p.Type, p.Status,
		p.TotalAmount, p.EmployeeCount, p.Deductions, p.Taxes, p.NetAmount,
		p.PaymentMethod, p.Notes, p.CreatedBy,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Payroll{}, payroll.ErrReferenceExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	if err := r.insertItems(ctx, q, id, p.Items); err != nil {
		return payroll.Payroll{}, err
	}

	return r.GetByID(ctx, id)
}

// insertItems queues every item in one batch round trip.
func (r *payrollRepositoryImpl) insertItems(ctx context.Context, q database.Querier, payrollID string, items []payroll.Item) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO payroll_items (
			id, payroll_id, employee_id, base_salary, hours_worked, overtime_hours, overtime_rate, overtime_pay,
			bonuses, custom_bonuses, allowances, deductions, custom_deductions, taxes, net_pay, status, adjustment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = newID()
		}
		batch.Queue(query,
			id, payrollID, item.EmployeeID, item.BaseSalary, item.HoursWorked, item.OvertimeHours,
			item.OvertimeRate, item.OvertimePay, item.Bonuses, lines(item.CustomBonuses), item.Allowances,
			item.Deductions, lines(item.CustomDeductions), item.Taxes, item.NetPay, item.Status, item.Adjustment,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert payroll item: %w", err)
		}
	}
	return nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	if !isUUID(id) {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`

	found, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll with id %s: %w", id, err)
	}

	found.Items, err = r.getItems(ctx, q, id)
	if err != nil {
		return payroll.Payroll{}, err
	}
	return found, nil
}

// getItems joins employee display fields. Soft-deleted employees still join
// so historical runs keep their names.
func (r *payrollRepositoryImpl) getItems(ctx context.Context, q database.Querier, payrollID string) ([]payroll.Item, error) {
	query := `
		SELECT pi.id, pi.payroll_id, pi.employee_id, pi.base_salary, pi.hours_worked, pi.overtime_hours,
			pi.overtime_rate, pi.overtime_pay, pi.bonuses, pi.custom_bonuses, pi.allowances, pi.deductions,
			pi.custom_deductions, pi.taxes, pi.net_pay, pi.status, pi.adjustment,
			e.name, e.email, e.department, e.position
		FROM payroll_items pi
		LEFT JOIN employees e ON e.id = pi.employee_id
		WHERE pi.payroll_id = $1
		ORDER BY e.name ASC, pi.id ASC
	`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll items: %w", err)
	}
	defer rows.Close()

	var items []payroll.Item
	for rows.Next() {
		var item payroll.Item
		err := rows.Scan(
			&item.ID, &item.PayrollID, &item.EmployeeID, &item.BaseSalary, &item.HoursWorked, &item.OvertimeHours,
			&item.OvertimeRate, &item.OvertimePay, &item.Bonuses, &item.CustomBonuses, &item.Allowances, &item.Deductions,
			&item.CustomDeductions, &item.Taxes, &item.NetPay, &item.Status, &item.Adjustment,
			&item.EmployeeName, &item.EmployeeEmail, &item.Department, &item.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll items: %w", err)
	}
	return items, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payrolls WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM payrolls
		WHERE %s
		ORDER BY created_at DESC, reference DESC
		LIMIT $%d OFFSET $%d`, payrollColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	payrolls, err := collectPayrolls(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan payrolls: %w", err)
	}

	return payrolls, total, nil
}

func collectPayrolls(rows pgx.Rows) ([]payroll.Payroll, error) {
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payrolls, nil
}

// Update implements payroll.PayrollRepository. The status check is part of
// the write so a run that moved on since it was read is left alone.
func (r *payrollRepositoryImpl) Update(ctx context.Context, p payroll.Payroll, expected payroll.PayrollStatus) error {
	if !isUUID(p.ID) {
		return payroll.ErrPayrollNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			period = $3, payment_method = $4, notes = $5,
			total_amount = $6, employee_count = $7, deductions = $8, taxes = $9, net_amount = $10,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := q.Exec(ctx, query,
		p.ID, expected, p.Period, p.PaymentMethod, p.Notes,
		p.TotalAmount, p.EmployeeCount, p.Deductions, p.Taxes, p.NetAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll with id %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOr(ctx, q, p.ID, payroll.ErrPayrollNotEditable)
	}
	return nil
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to payroll.PayrollStatus, processedBy *string, processedAt *time.Time) error {
	if !isUUID(id) {
		return payroll.ErrPayrollNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			status = $3,
			processed_by = COALESCE($4, processed_by),
			processed_at = COALESCE($5, processed_at),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := q.Exec(ctx, query, id, from, to, processedBy, processedAt)
	if err != nil {
		return fmt.Errorf("failed to update status of payroll with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOr(ctx, q, id, payroll.ErrInvalidStatusTransition)
	}
	return nil
}

// missOr tells a missing run apart from one whose status guard failed.
func (r *payrollRepositoryImpl) missOr(ctx context.Context, q database.Querier, id string, guardErr error) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payrolls WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check payroll with id %s: %w", id, err)
	}
	if !exists {
		return payroll.ErrPayrollNotFound
	}
	return guardErr
}

// ReplaceItems implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ReplaceItems(ctx context.Context, payrollID string, items []payroll.Item) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_items WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to clear payroll items: %w", err)
	}
	return r.insertItems(ctx, q, payrollID, items)
}

// UpdateItemStatuses implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateItemStatuses(ctx context.Context, payrollID string, status payroll.ItemStatus) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE payroll_items SET status = $2 WHERE payroll_id = $1`, payrollID, status); err != nil {
		return fmt.Errorf("failed to update payroll item statuses: %w", err)
	}
	return nil
}

// Delete implements payroll.PayrollRepository. Items go with the run.
func (r *payrollRepositoryImpl) Delete(ctx context.Context, id string, allowed ...payroll.PayrollStatus) error {
	if !isUUID(id) {
		return payroll.ErrPayrollNotFound
	}
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, 0, len(allowed))
	for _, status := range allowed {
		statuses = append(statuses, string(status))
	}

	query := `DELETE FROM payrolls WHERE id = $1 AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))`
	tag, err := q.Exec(ctx, query, id, statuses)
	if err != nil {
		return fmt.Errorf("failed to delete payroll with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOr(ctx, q, id, payroll.ErrPayrollNotDeletable)
	}
	return nil
}

// NextReferenceSequence implements payroll.PayrollRepository. The upsert takes
// a row lock on the month, so concurrent runs serialize on it.
func (r *payrollRepositoryImpl) NextReferenceSequence(ctx context.Context, month string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_reference_counters (month, last_value)
		VALUES ($1, 1)
		ON CONFLICT (month) DO UPDATE
		SET last_value = payroll_reference_counters.last_value + 1
		RETURNING last_value
	`

	var seq int64
	if err := q.QueryRow(ctx, query, month).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate reference sequence for %s: %w", month, err)
	}
	return seq, nil
}

// GetTimesheetSummary implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetTimesheetSummary(ctx context.Context, employeeIDs []string, start, end time.Time) ([]payroll.TimesheetSummary, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, COALESCE(SUM(total_hours), 0), COALESCE(SUM(overtime_hours), 0)
		FROM timesheets
		WHERE status = $1 AND employee_id = ANY($2::uuid[]) AND date BETWEEN $3 AND $4
		GROUP BY employee_id
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, timesheet.StatusApproved, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum timesheet hours: %w", err)
	}
	defer rows.Close()

	var summaries []payroll.TimesheetSummary
	for rows.Next() {
		var s payroll.TimesheetSummary
		if err := rows.Scan(&s.EmployeeID, &s.TotalHours, &s.OvertimeHours); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timesheet summary: %w", err)
	}
	return summaries, nil
}

func lines(l []payroll.LineItem) []payroll.LineItem {
	if l == nil {
		return []payroll.LineItem{}
	}
	return l
}
