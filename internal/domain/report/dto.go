package report

import (
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollSummaryReport struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	Taxes           decimal.Decimal `json:"taxes"`
	Deductions      decimal.Decimal `json:"deductions"`
	PayrollCount    int             `json:"payrollCount"`
	ActiveEmployees int             `json:"activeEmployees"`
	ByStatus        map[string]int  `json:"byStatus"`
}

type TimesheetSummaryReport struct {
	TimesheetCount int     `json:"timesheetCount"`
	TotalHours     float64 `json:"totalHours"`
	OvertimeHours  float64 `json:"overtimeHours"`
	AverageHours   float64 `json:"averageHours"`
	Approved       int     `json:"approved"`
	Pending        int     `json:"pending"`
	Rejected       int     `json:"rejected"`
}

type DepartmentSummary struct {
	Department     string  `json:"department"`
	TotalHours     float64 `json:"totalHours"`
	OvertimeHours  float64 `json:"overtimeHours"`
	TimesheetCount int     `json:"timesheetCount"`
	EmployeeCount  int     `json:"employeeCount"`
}

type EmployeeHours struct {
	EmployeeID     string  `json:"employeeId"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Department     string  `json:"department"`
	Position       string  `json:"position"`
	TotalHours     float64 `json:"totalHours"`
	OvertimeHours  float64 `json:"overtimeHours"`
	TimesheetCount int     `json:"timesheetCount"`
}

type MonthlyTrend struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	TotalHours     float64 `json:"totalHours"`
	OvertimeHours  float64 `json:"overtimeHours"`
	TimesheetCount int     `json:"timesheetCount"`
}

type ExportType string

const (
	ExportEmployees         ExportType = "employees"
	ExportTimesheets        ExportType = "timesheets"
	ExportPayroll           ExportType = "payroll"
	ExportDepartmentSummary ExportType = "department-summary"
)

type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

type ExportRequest struct {
	Type   string
	Format string
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	valid := []string{string(ExportEmployees), string(ExportTimesheets), string(ExportPayroll), string(ExportDepartmentSummary)}
	if !validator.IsInSlice(r.Type, valid) {
		errs.Add("type", ErrInvalidExportType.Error())
	}

	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = string(FormatCSV)
	} else if r.Format != string(FormatCSV) && r.Format != string(FormatPDF) {
		errs.Add("format", ErrInvalidExportFormat.Error())
	}

	return errs.Err()
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
