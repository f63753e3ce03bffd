package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is a titled grid of already formatted cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// WriteCSV writes the header row followed by every data row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("csv row %d has %d cells, want %d", i, len(row), len(t.Headers))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
