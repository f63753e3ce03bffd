package timesheet

import "context"

type TimesheetService interface {
	Create(ctx context.Context, req CreateTimesheetRequest) (TimesheetResponse, error)
	Get(ctx context.Context, id string) (TimesheetResponse, error)
	List(ctx context.Context, filter TimesheetFilter) (ListTimesheetResponse, error)

	// Update and Delete only apply to sheets still awaiting review.
	Update(ctx context.Context, req UpdateTimesheetRequest) (TimesheetResponse, error)
	Delete(ctx context.Context, id string) error

	Approve(ctx context.Context, id string, reviewerID string) (TimesheetResponse, error)
	Reject(ctx context.Context, req RejectTimesheetRequest, reviewerID string) (TimesheetResponse, error)
}
