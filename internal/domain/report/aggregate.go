package report

import (
	"math"
	"sort"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// DefaultTopLimit is the size of top-N listings when no limit is given.
const DefaultTopLimit = 5

func SummarizePayrolls(payrolls []payroll.Payroll, employees []employee.Employee) PayrollSummaryReport {
	out := PayrollSummaryReport{
		TotalAmount: decimal.Zero,
		NetAmount:   decimal.Zero,
		Taxes:       decimal.Zero,
		Deductions:  decimal.Zero,
		ByStatus:    make(map[string]int),
	}

	for _, p := range payrolls {
		out.TotalAmount = out.TotalAmount.Add(p.TotalAmount)
		out.NetAmount = out.NetAmount.Add(p.NetAmount)
		out.Taxes = out.Taxes.Add(p.Taxes)
		out.Deductions = out.Deductions.Add(p.Deductions)
		out.ByStatus[string(p.Status)]++
	}
	out.PayrollCount = len(payrolls)

	for _, e := range employees {
		if e.Status == employee.StatusActive && !e.IsDeleted() {
			out.ActiveEmployees++
		}
	}

	return out
}

func SummarizeTimesheets(sheets []timesheet.Timesheet) TimesheetSummaryReport {
	var out TimesheetSummaryReport

	for _, t := range sheets {
		out.TotalHours += t.TotalHours
		out.OvertimeHours += t.OvertimeHours
		switch t.Status {
		case timesheet.StatusApproved:
			out.Approved++
		case timesheet.StatusPending:
			out.Pending++
		case timesheet.StatusRejected:
			out.Rejected++
		}
	}
	out.TimesheetCount = len(sheets)
	if out.TimesheetCount > 0 {
		out.AverageHours = round2(out.TotalHours / float64(out.TimesheetCount))
	}

	return out
}

// SummarizeDepartments groups timesheets by their employee's department.
// Timesheets whose employee is unknown land in the unassigned bucket.
func SummarizeDepartments(sheets []timesheet.Timesheet, employees []employee.Employee) []DepartmentSummary {
	byID := indexEmployees(employees)

	type bucket struct {
		summary   DepartmentSummary
		employees map[string]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, t := range sheets {
		dept := employee.UnassignedDepartment
		if e, ok := byID[t.EmployeeID]; ok {
			dept = e.DepartmentOrDefault()
		}

		b, ok := buckets[dept]
		if !ok {
			b = &bucket{summary: DepartmentSummary{Department: dept}, employees: make(map[string]struct{})}
			buckets[dept] = b
		}
		b.summary.TotalHours += t.TotalHours
		b.summary.OvertimeHours += t.OvertimeHours
		b.summary.TimesheetCount++
		b.employees[t.EmployeeID] = struct{}{}
	}

	out := make([]DepartmentSummary, 0, len(buckets))
	for _, b := range buckets {
		b.summary.EmployeeCount = len(b.employees)
		out = append(out, b.summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Department < out[j].Department
	})

	return out
}

// Metric selects the hour figure a top-N listing is ranked by.
type Metric int

const (
	ByTotalHours Metric = iota
	ByOvertimeHours
)

// RankEmployees sums hours per employee and returns the top limit entries,
// highest first. Ties are broken by name, then id.
func RankEmployees(sheets []timesheet.Timesheet, employees []employee.Employee, metric Metric, limit int) []EmployeeHours {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	byID := indexEmployees(employees)

	totals := make(map[string]*EmployeeHours)
	for _, t := range sheets {
		row, ok := totals[t.EmployeeID]
		if !ok {
			row = &EmployeeHours{EmployeeID: t.EmployeeID, Department: employee.UnassignedDepartment}
			if e, found := byID[t.EmployeeID]; found {
				row.Name = e.Name
				row.Email = e.Email
				row.Department = e.DepartmentOrDefault()
				row.Position = deref(e.Position)
			}
			totals[t.EmployeeID] = row
		}
		row.TotalHours += t.TotalHours
		row.OvertimeHours += t.OvertimeHours
		row.TimesheetCount++
	}

	out := make([]EmployeeHours, 0, len(totals))
	for _, row := range totals {
		out = append(out, *row)
	}

	value := func(r EmployeeHours) float64 {
		if metric == ByOvertimeHours {
			return r.OvertimeHours
		}
		return r.TotalHours
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := value(out[i]), value(out[j])
		if vi != vj {
			return vi > vj
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MonthlyTrends groups timesheets by calendar month of their date, oldest first.
func MonthlyTrends(sheets []timesheet.Timesheet) []MonthlyTrend {
	type key struct{ year, month int }
	months := make(map[key]*MonthlyTrend)

	for _, t := range sheets {
		k := key{t.Date.Year(), int(t.Date.Month())}
		m, ok := months[k]
		if !ok {
			m = &MonthlyTrend{Year: k.year, Month: k.month}
			months[k] = m
		}
		m.TotalHours += t.TotalHours
		m.OvertimeHours += t.OvertimeHours
		m.TimesheetCount++
	}

	out := make([]MonthlyTrend, 0, len(months))
	for _, m := range months {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})

	return out
}

func indexEmployees(employees []employee.Employee) map[string]employee.Employee {
	byID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	return byID
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
