package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

const maxTopLimit = 100

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PayrollSummary implements report.ReportService.
func (s *ReportServiceImpl) PayrollSummary(ctx context.Context) (report.PayrollSummaryReport, error) {
	payrolls, err := s.reportRepo.ListPayrolls(ctx)
	if err != nil {
		return report.PayrollSummaryReport{}, fmt.Errorf("failed to get payrolls: %w", err)
	}
	employees, err := s.reportRepo.ListEmployees(ctx)
	if err != nil {
		return report.PayrollSummaryReport{}, fmt.Errorf("failed to get employees: %w", err)
	}
	return report.SummarizePayrolls(payrolls, employees), nil
}

// TimesheetSummary implements report.ReportService.
func (s *ReportServiceImpl) TimesheetSummary(ctx context.Context) (report.TimesheetSummaryReport, error) {
	sheets, err := s.reportRepo.ListTimesheets(ctx)
	if err != nil {
		return report.TimesheetSummaryReport{}, fmt.Errorf("failed to get timesheets: %w", err)
	}
	return report.SummarizeTimesheets(sheets), nil
}

// DepartmentSummary implements report.ReportService.
func (s *ReportServiceImpl) DepartmentSummary(ctx context.Context) ([]report.DepartmentSummary, error) {
	sheets, employees, err := s.timesheetsWithEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return report.SummarizeDepartments(sheets, employees), nil
}

// TopEmployees implements report.ReportService.
func (s *ReportServiceImpl) TopEmployees(ctx context.Context, limit int) ([]report.EmployeeHours, error) {
	return s.rank(ctx, report.ByTotalHours, limit)
}

// OvertimeLeaders implements report.ReportService.
func (s *ReportServiceImpl) OvertimeLeaders(ctx context.Context, limit int) ([]report.EmployeeHours, error) {
	return s.rank(ctx, report.ByOvertimeHours, limit)
}

func (s *ReportServiceImpl) rank(ctx context.Context, metric report.Metric, limit int) ([]report.EmployeeHours, error) {
	if limit < 0 || limit > maxTopLimit {
		var errs validator.ValidationErrors
		errs.Add("limit", report.ErrInvalidLimit.Error())
		return nil, errs
	}
	if limit == 0 {
		limit = report.DefaultTopLimit
	}

	sheets, employees, err := s.timesheetsWithEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return report.RankEmployees(sheets, employees, metric, limit), nil
}

// TimesheetTrends implements report.ReportService.
func (s *ReportServiceImpl) TimesheetTrends(ctx context.Context) ([]report.MonthlyTrend, error) {
	sheets, err := s.reportRepo.ListTimesheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get timesheets: %w", err)
	}
	return report.MonthlyTrends(sheets), nil
}

func (s *ReportServiceImpl) timesheetsWithEmployees(ctx context.Context) ([]timesheet.Timesheet, []employee.Employee, error) {
	sheets, err := s.reportRepo.ListTimesheets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get timesheets: %w", err)
	}
	employees, err := s.reportRepo.ListEmployees(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get employees: %w", err)
	}
	return sheets, employees, nil
}

// ========== EXPORT ==========

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	var (
		table export.Table
		err   error
	)
	switch report.ExportType(req.Type) {
	case report.ExportEmployees:
		table, err = s.employeesTable(ctx)
	case report.ExportTimesheets:
		table, err = s.timesheetsTable(ctx)
	case report.ExportPayroll:
		table, err = s.payrollTable(ctx)
	case report.ExportDepartmentSummary:
		table, err = s.departmentTable(ctx)
	}
	if err != nil {
		return report.ExportFile{}, err
	}

	var buf bytes.Buffer
	file := report.ExportFile{
		Filename: fmt.Sprintf("%s-%s.%s", req.Type, s.now().Format("20060102"), req.Format),
	}
	if report.ExportFormat(req.Format) == report.FormatPDF {
		file.ContentType = "application/pdf"
		err = export.WritePDF(&buf, table)
	} else {
		file.ContentType = "text/csv; charset=utf-8"
		err = export.WriteCSV(&buf, table)
	}
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to render %s export: %w", req.Format, err)
	}
	file.Body = buf.Bytes()

	return file, nil
}

func (s *ReportServiceImpl) employeesTable(ctx context.Context) (export.Table, error) {
	employees, err := s.reportRepo.ListEmployees(ctx)
	if err != nil {
		return export.Table{}, fmt.Errorf("failed to get employees: %w", err)
	}

	table := export.Table{
		Title:   "Employees",
		Headers: []string{"Name", "Email", "Position", "Department", "Status", "Salary", "Hire Date"},
	}
	for _, e := range employees {
		if e.IsDeleted() {
			continue
		}
		table.Rows = append(table.Rows, []string{
			e.Name,
			e.Email,
			deref(e.Position),
			e.DepartmentOrDefault(),
			string(e.Status),
			e.Salary.StringFixed(2),
			e.HireDate.Format(validator.DateLayout),
		})
	}
	return table, nil
}

func (s *ReportServiceImpl) timesheetsTable(ctx context.Context) (export.Table, error) {
	sheets, employees, err := s.timesheetsWithEmployees(ctx)
	if err != nil {
		return export.Table{}, err
	}
	names := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		names[e.ID] = e
	}

	table := export.Table{
		Title:   "Timesheets",
		Headers: []string{"Date", "Employee", "Department", "Start", "End", "Break (min)", "Total Hours", "Overtime Hours", "Status"},
	}
	for _, t := range sheets {
		name, dept := t.EmployeeID, employee.UnassignedDepartment
		if e, ok := names[t.EmployeeID]; ok {
			name, dept = e.Name, e.DepartmentOrDefault()
		}
		table.Rows = append(table.Rows, []string{
			t.Date.Format(validator.DateLayout),
			name,
			dept,
			t.StartTime,
			t.EndTime,
			strconv.Itoa(t.BreakTime),
			formatHours(t.TotalHours),
			formatHours(t.OvertimeHours),
			string(t.Status),
		})
	}
	return table, nil
}

func (s *ReportServiceImpl) payrollTable(ctx context.Context) (export.Table, error) {
	payrolls, err := s.reportRepo.ListPayrolls(ctx)
	if err != nil {
		return export.Table{}, fmt.Errorf("failed to get payrolls: %w", err)
	}

	table := export.Table{
		Title:   "Payroll",
		Headers: []string{"Reference", "Period", "Type", "Status", "Employees", "Total", "Deductions", "Taxes", "Net", "Payment Method"},
	}
	for _, p := range payrolls {
		table.Rows = append(table.Rows, []string{
			p.Reference,
			p.Period,
			string(p.Type),
			string(p.Status),
			strconv.Itoa(p.EmployeeCount),
			p.TotalAmount.StringFixed(2),
			p.Deductions.StringFixed(2),
			p.Taxes.StringFixed(2),
			p.NetAmount.StringFixed(2),
			string(p.PaymentMethod),
		})
	}
	return table, nil
}

func (s *ReportServiceImpl) departmentTable(ctx context.Context) (export.Table, error) {
	summaries, err := s.DepartmentSummary(ctx)
	if err != nil {
		return export.Table{}, err
	}

	table := export.Table{
		Title:   "Department Summary",
		Headers: []string{"Department", "Total Hours", "Overtime Hours", "Timesheets", "Employees"},
	}
	for _, d := range summaries {
		table.Rows = append(table.Rows, []string{
			d.Department,
			formatHours(d.TotalHours),
			formatHours(d.OvertimeHours),
			strconv.Itoa(d.TimesheetCount),
			strconv.Itoa(d.EmployeeCount),
		})
	}
	return table, nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
