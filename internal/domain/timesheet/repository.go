package timesheet

import "context"

type TimesheetRepository interface {
	Create(ctx context.Context, t Timesheet) (Timesheet, error)
	GetByID(ctx context.Context, id string) (Timesheet, error)
	List(ctx context.Context, filter TimesheetFilter) ([]Timesheet, int64, error)
	// Update writes t only while the stored timesheet is still pending and
	// returns ErrTimesheetNotPending once it has been reviewed.
	Update(ctx context.Context, t Timesheet) (Timesheet, error)
	// Delete removes a pending timesheet, with the same guard as Update.
	Delete(ctx context.Context, id string) error
}
