package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Create persists the run and its items.
	Create(ctx context.Context, p Payroll) (Payroll, error)
	// GetByID returns the run with its items and joined employee fields.
	GetByID(ctx context.Context, id string) (Payroll, error)
	// List returns runs without items, newest first.
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
	// Update writes header fields and totals while the stored run is still
	// in status expected, and returns ErrPayrollNotEditable once it is not.
	Update(ctx context.Context, p Payroll, expected PayrollStatus) error
	// UpdateStatus moves the run from one status to another and returns
	// ErrInvalidStatusTransition when the stored status is no longer from.
	// Nil processed fields leave the stored values untouched.
	UpdateStatus(ctx context.Context, id string, from, to PayrollStatus, processedBy *string, processedAt *time.Time) error
	ReplaceItems(ctx context.Context, payrollID string, items []Item) error
	UpdateItemStatuses(ctx context.Context, payrollID string, status ItemStatus) error
	// Delete removes the run while its stored status is one of allowed, and
	// returns ErrPayrollNotDeletable otherwise. No allowed statuses means any.
	Delete(ctx context.Context, id string, allowed ...PayrollStatus) error

	// NextReferenceSequence allocates the next per-month reference number.
	// Allocation is atomic; two calls never return the same value for a month.
	NextReferenceSequence(ctx context.Context, month string) (int64, error)

	// GetTimesheetSummary sums approved timesheet hours per employee with
	// dates in [start, end].
	GetTimesheetSummary(ctx context.Context, employeeIDs []string, start, end time.Time) ([]TimesheetSummary, error)
}
