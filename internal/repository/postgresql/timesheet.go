package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

const timesheetColumns = `
	t.id, t.employee_id, t.date, t.start_time, t.end_time, t.break_time, t.total_hours, t.overtime_hours,
	t.project, t.description, t.status, t.approved_by, t.approved_at, t.rejection_reason,
	t.created_at, t.updated_at, e.name`

const timesheetFrom = `timesheets t LEFT JOIN employees e ON e.id = t.employee_id`

func scanTimesheet(row pgx.Row) (timesheet.Timesheet, error) {
	var t timesheet.Timesheet
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.Date, &t.StartTime, &t.EndTime, &t.BreakTime, &t.TotalHours, &t.OvertimeHours,
		&t.Project, &t.Description, &t.Status, &t.ApprovedBy, &t.ApprovedAt, &t.RejectionReason,
		&t.CreatedAt, &t.UpdatedAt, &t.EmployeeName,
	)
	return t, err
}

func collectTimesheets(rows pgx.Rows) ([]timesheet.Timesheet, error) {
	defer rows.Close()

	var sheets []timesheet.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sheets, nil
}

// Create implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Create(ctx context.Context, t timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (
			id, employee_id, date, start_time, end_time, break_time, total_hours, overtime_hours,
			project, description, status, approved_by, approved_at, rejection_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newID(), t.EmployeeID, t.Date, t.StartTime, t.EndTime, t.BreakTime, t.TotalHours, t.OvertimeHours,
		t.Project, t.Description, t.Status, t.ApprovedBy, t.ApprovedAt, t.RejectionReason,
	).Scan(&id)
	if err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("failed to create timesheet: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	if !isUUID(id) {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM ` + timesheetFrom + ` WHERE t.id = $1`

	found, err := scanTimesheet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to get timesheet with id %s: %w", id, err)
	}
	return found, nil
}

// List implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) List(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.Timesheet, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		if !isUUID(*filter.EmployeeID) {
			return nil, 0, nil
		}
		conditions = append(conditions, fmt.Sprintf("t.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.From != nil && *filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("t.date >= $%d::date", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("t.date <= $%d::date", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM timesheets t WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count timesheets: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $%d OFFSET $%d`, timesheetColumns, timesheetFrom, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list timesheets: %w", err)
	}
	sheets, err := collectTimesheets(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan timesheets: %w", err)
	}

	return sheets, total, nil
}

// Update implements timesheet.TimesheetRepository. The pending check is part
// of the write so a review that landed after the read is not overwritten.
func (r *timesheetRepositoryImpl) Update(ctx context.Context, t timesheet.Timesheet) (timesheet.Timesheet, error) {
	if !isUUID(t.ID) {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets SET
			date = $2, start_time = $3, end_time = $4, break_time = $5,
			total_hours = $6, overtime_hours = $7, project = $8, description = $9,
			status = $10, approved_by = $11, approved_at = $12, rejection_reason = $13,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query,
		t.ID, t.Date, t.StartTime, t.EndTime, t.BreakTime,
		t.TotalHours, t.OvertimeHours, t.Project, t.Description,
		t.Status, t.ApprovedBy, t.ApprovedAt, t.RejectionReason,
	)
	if err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("failed to update timesheet with id %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.Timesheet{}, r.missOr(ctx, q, t.ID)
	}

	return r.GetByID(ctx, t.ID)
}

// Delete implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return timesheet.ErrTimesheetNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM timesheets WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOr(ctx, q, id)
	}
	return nil
}

// missOr tells a missing timesheet apart from one that is no longer pending.
func (r *timesheetRepositoryImpl) missOr(ctx context.Context, q database.Querier, id string) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM timesheets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check timesheet with id %s: %w", id, err)
	}
	if !exists {
		return timesheet.ErrTimesheetNotFound
	}
	return timesheet.ErrTimesheetNotPending
}
