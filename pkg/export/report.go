package export

import (
	"fmt"
	"time"
)

// Table is a named block of rows sharing one header line.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
	// Weights sizes PDF columns relative to each other. Empty means equal widths.
	Weights []float64
}

// Report is an ordered set of tables rendered into one document.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Tables      []Table
}

func (r Report) validate() error {
	if len(r.Tables) == 0 {
		return fmt.Errorf("report requires at least one table")
	}
	for _, table := range r.Tables {
		if len(table.Headers) == 0 {
			return fmt.Errorf("table %q requires at least one header", table.Name)
		}
		if len(table.Weights) != 0 && len(table.Weights) != len(table.Headers) {
			return fmt.Errorf("table %q has %d weights for %d headers", table.Name, len(table.Weights), len(table.Headers))
		}
		for i, row := range table.Rows {
			if len(row) != len(table.Headers) {
				return fmt.Errorf("table %q row %d has %d cells, want %d", table.Name, i, len(row), len(table.Headers))
			}
		}
	}
	return nil
}
