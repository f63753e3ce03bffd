package payroll

import (
	"github.com/shopspring/decimal"
)

// Rates are the defaults applied when an adjustment does not override them.
type Rates struct {
	TaxRate            decimal.Decimal
	BenefitRate        decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	AnnualHours        decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{
		TaxRate:            decimal.RequireFromString("0.25"),
		BenefitRate:        decimal.RequireFromString("0.15"),
		OvertimeMultiplier: decimal.RequireFromString("1.5"),
		AnnualHours:        decimal.NewFromInt(2080),
	}
}

// EmployeeInput is what the calculator needs to know about an employee.
type EmployeeInput struct {
	EmployeeID    string
	AnnualSalary  decimal.Decimal
	HourlyRate    *decimal.Decimal
	HoursWorked   decimal.Decimal
	OvertimeHours decimal.Decimal
}

const centPlaces = 2

// CalculateItem computes one employee's pay for a run of the given type.
//
//	net = base + overtimePay + bonuses + customBonuses + allowances
//	      - deductions - customDeductions - taxes
func (r Rates) CalculateItem(runType Type, in EmployeeInput, adj Adjustment) Item {
	base := in.AnnualSalary.Div(decimal.NewFromInt(runType.PeriodsPerYear())).Round(centPlaces)

	hours := in.HoursWorked
	if adj.HoursWorked != nil {
		hours = *adj.HoursWorked
	}
	overtimeHours := in.OvertimeHours
	if adj.OvertimeHours != nil {
		overtimeHours = *adj.OvertimeHours
	}

	var overtimeRate decimal.Decimal
	switch {
	case adj.OvertimeRate != nil:
		overtimeRate = *adj.OvertimeRate
	case in.HourlyRate != nil:
		overtimeRate = in.HourlyRate.Mul(r.OvertimeMultiplier)
	default:
		overtimeRate = in.AnnualSalary.Div(r.AnnualHours).Mul(r.OvertimeMultiplier)
	}
	overtimeRate = overtimeRate.Round(centPlaces)
	overtimePay := overtimeHours.Mul(overtimeRate).Round(centPlaces)

	taxes := base.Mul(r.TaxRate).Round(centPlaces)
	if adj.Taxes != nil {
		taxes = *adj.Taxes
	}
	deductions := base.Mul(r.BenefitRate).Round(centPlaces)
	if adj.Deductions != nil {
		deductions = *adj.Deductions
	}

	item := Item{
		EmployeeID:       in.EmployeeID,
		BaseSalary:       base,
		HoursWorked:      hours,
		OvertimeHours:    overtimeHours,
		OvertimeRate:     overtimeRate,
		OvertimePay:      overtimePay,
		Bonuses:          adj.Bonuses,
		CustomBonuses:    adj.CustomBonuses,
		Allowances:       adj.Allowances,
		Deductions:       deductions,
		CustomDeductions: adj.CustomDeductions,
		Taxes:            taxes,
		Status:           ItemStatusPending,
		Adjustment:       adj,
	}
	item.NetPay = item.GrossPay().
		Sub(item.Deductions).
		Sub(sumLines(item.CustomDeductions)).
		Sub(item.Taxes)

	return item
}

// ApplyTotals recomputes the run-level sums from the items.
func (p *Payroll) ApplyTotals() {
	total := decimal.Zero
	deductions := decimal.Zero
	taxes := decimal.Zero
	net := decimal.Zero

	for _, item := range p.Items {
		total = total.Add(item.BaseSalary)
		deductions = deductions.Add(item.Deductions).Add(sumLines(item.CustomDeductions))
		taxes = taxes.Add(item.Taxes)
		net = net.Add(item.NetPay)
	}

	p.TotalAmount = total
	p.Deductions = deductions
	p.Taxes = taxes
	p.NetAmount = net
	p.EmployeeCount = len(p.Items)
}

func sumLines(lines []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}

// HoursFromFloat converts timesheet hours into the two-place decimal used on items.
func HoursFromFloat(h float64) decimal.Decimal {
	return decimal.NewFromFloat(h).Round(centPlaces)
}
