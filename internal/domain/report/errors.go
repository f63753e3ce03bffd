package report

import "errors"

var (
	ErrInvalidExportType   = errors.New("export type must be one of: employees, timesheets, payroll, department-summary")
	ErrInvalidExportFormat = errors.New("export format must be csv or pdf")
	ErrInvalidLimit        = errors.New("limit must be between 1 and 100")
)
