package timesheet

import "errors"

var (
	ErrTimesheetNotFound     = errors.New("timesheet not found")
	ErrInvalidTimeFormat     = errors.New("time must be in HH:MM 24-hour format")
	ErrNegativeBreakTime     = errors.New("break time must not be negative")
	ErrTimesheetNotPending   = errors.New("timesheet has already been reviewed")
	ErrRejectionReasonNeeded = errors.New("rejection reason is required")
	ErrEmployeeNotFound      = errors.New("employee not found")
)
