package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Department summary",
		Headers: []string{"Department", "Total hours", "Employees"},
		Rows: [][]string{
			{"Engineering", "120.00", "2"},
			{"Sales, EMEA", "40.50", "1"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Department", "Total hours", "Employees"}, records[0])
	assert.Equal(t, "Sales, EMEA", records[2][0])
}

func TestWriteCSV_RaggedRow(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only one"})

	var buf bytes.Buffer
	assert.Error(t, WriteCSV(&buf, table))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleTable()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePayslip(t *testing.T) {
	var buf bytes.Buffer
	err := WritePayslip(&buf, Payslip{
		Reference:    "PAY-202403-0001",
		Period:       "2024-03-01 - 2024-03-31",
		EmployeeName: "José Núñez",
		Earnings:     []PayslipLine{{Label: "Base salary", Amount: "5000.00"}},
		Deductions:   []PayslipLine{{Label: "Taxes", Amount: "1250.00"}},
		GrossPay:     "5000.00",
		NetPay:       "3750.00",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
