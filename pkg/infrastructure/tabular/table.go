// Package tabular reads spreadsheet and CSV sources into named-column tables
// and applies the cell coercion rules shared by every dataset.
package tabular

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Conventional column names that receive numeric cleaning on load
const (
	AmountColumn = "Amount"
	CountColumn  = "Count"
)

// Table is a rectangular view over raw string cells with named columns
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable builds a table from a header row and data rows.
// Rows shorter than the header are treated as having empty trailing cells.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("table must have a header row")
	}

	t := &Table{
		columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
		rows:    rows,
	}
	for i, col := range header {
		name := strings.TrimSpace(col)
		t.columns[i] = name
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}

	return t, nil
}

// Columns returns the header names in source order
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the trimmed cell text at row for the named column.
// Missing columns and ragged rows yield the empty string.
func (t *Table) Value(row int, column string) string {
	col, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.cell(row, col)
}

// ValueAt returns the trimmed cell text at row and column position
func (t *Table) ValueAt(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.columns) {
		return ""
	}
	return t.cell(row, col)
}

func (t *Table) cell(row, col int) string {
	record := t.rows[row]
	if col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

// Amount coerces the named cell with the currency rule
func (t *Table) Amount(row int, column string) decimal.NullDecimal {
	return ParseAmount(t.Value(row, column))
}

// Count coerces the named cell with the count rule
func (t *Table) Count(row int, column string) decimal.NullDecimal {
	return ParseCount(t.Value(row, column))
}

// Number coerces the named cell as a plain number
func (t *Table) Number(row int, column string) decimal.NullDecimal {
	return ParseNumber(t.Value(row, column))
}

// Numeric coerces a cell with the rule its column name selects
func (t *Table) Numeric(row int, column string) decimal.NullDecimal {
	switch column {
	case AmountColumn:
		return t.Amount(row, column)
	case CountColumn:
		return t.Count(row, column)
	default:
		return t.Number(row, column)
	}
}

var (
	amountReplacer = strings.NewReplacer("$", "", ",", "")
	countReplacer  = strings.NewReplacer(",", "")
)

// ParseAmount strips currency symbols and thousands separators and parses a decimal.
// Unparsable text yields an invalid (missing) value.
func ParseAmount(s string) decimal.NullDecimal {
	return ParseNumber(amountReplacer.Replace(s))
}

// ParseCount strips thousands separators and parses a decimal
func ParseCount(s string) decimal.NullDecimal {
	return ParseNumber(countReplacer.Replace(s))
}

// ParseNumber parses a decimal, yielding an invalid value for empty or non-numeric text
func ParseNumber(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// FloatOrZero converts a coerced value to float64, treating missing as zero
func FloatOrZero(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}
