package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFont       = "Helvetica"
	rowHeight     = 7.0
	headerShading = 230
)

// WritePDF renders the table as a landscape A4 document for printing.
func WritePDF(w io.Writer, t Table) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.Cell(0, 10, tr(t.Title))
	pdf.Ln(12)

	if len(t.Headers) > 0 {
		pageWidth, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		colWidth := (pageWidth - left - right) / float64(len(t.Headers))

		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(headerShading, headerShading, headerShading)
		for _, h := range t.Headers {
			pdf.CellFormat(colWidth, rowHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(pdfFont, "", 9)
		for _, row := range t.Rows {
			for i := range t.Headers {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				pdf.CellFormat(colWidth, rowHeight, tr(cell), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	pdf.Ln(4)
	pdf.SetFont(pdfFont, "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC3339)))

	return pdf.Output(w)
}

// Payslip is one employee's pay statement.
type Payslip struct {
	Reference     string
	Period        string
	EmployeeName  string
	EmployeeEmail string
	Department    string
	PaymentMethod string
	Status        string
	Earnings      []PayslipLine
	Deductions    []PayslipLine
	GrossPay      string
	NetPay        string
}

type PayslipLine struct {
	Label  string
	Amount string
}

// WritePayslip renders a single-page portrait payslip.
func WritePayslip(w io.Writer, p Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Payslip "+p.Reference, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont(pdfFont, "", 11)
	for _, line := range []string{
		"Reference: " + p.Reference,
		"Period: " + p.Period,
		"Employee: " + p.EmployeeName,
		"Email: " + p.EmployeeEmail,
		"Department: " + p.Department,
		"Payment method: " + p.PaymentMethod,
		"Status: " + p.Status,
	} {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	section := func(title string, lines []PayslipLine) {
		pdf.SetFont(pdfFont, "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont(pdfFont, "", 11)
		for _, l := range lines {
			pdf.CellFormat(120, 7, tr(l.Label), "", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, tr(l.Amount), "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}
	section("Earnings", p.Earnings)
	section("Deductions", p.Deductions)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(120, 8, "Gross pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, p.GrossPay, "T", 1, "R", false, 0, "")
	pdf.CellFormat(120, 8, "Net pay", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, p.NetPay, "", 1, "R", false, 0, "")

	return pdf.Output(w)
}
