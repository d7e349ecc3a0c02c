package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxDisplayRows caps the interactive display table. The Export table is
// never capped — CSV export and chart rendering read the uncapped table.
const maxDisplayRows = 100

type ErrorKind string

const (
	ErrNoData           ErrorKind = "no_data"
	ErrInsufficientData ErrorKind = "insufficient_data"
	ErrInvalidMetric    ErrorKind = "invalid_metric"
)

// ResultError is the data form of a failed query. Errors never cross the
// engine boundary as Go errors — callers branch on Kind.
type ResultError struct {
	Kind    ErrorKind
	Message string
	Filters map[string]string // echoed non-null parameters
}

type ChartType string

const (
	ChartNone ChartType = ""
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
)

// Table is a rectangular, display-ready result table. Cells are rendered as
// strings; a null value renders as the empty cell.
type Table struct {
	Columns []string
	Rows    [][]string
}

// head returns a copy bounded to the first n rows.
func (t *Table) head(n int) *Table {
	if t == nil || len(t.Rows) <= n {
		return t
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Point is one labeled value of a ranked or time-ordered series, consumed by
// chart builders.
type Point struct {
	Label string
	Value float64
}

// QueryResult is the uniform record every terminal stage returns.
// Either Error is set (with Table possibly carrying a partial result, as for
// an insufficient-data comparison), or the success fields are populated.
// A result is constructed fresh per query and never mutated after return.
type QueryResult struct {
	Error *ResultError

	Value     decimal.Decimal
	Formatted string
	RowCount  int       // rows remaining after filtering, not capped
	Table     *Table    // display table, bounded to maxDisplayRows
	Export    *Table    // uncapped table for CSV export / charting
	ChartType ChartType // optional rendering hint
	Series    []Point   // optional chart series (top-n, yoy)
}

// IsError reports whether the result is the error variant.
func (r *QueryResult) IsError() bool { return r.Error != nil }

func errorResult(kind ErrorKind, message string, p Params) *QueryResult {
	return &QueryResult{Error: &ResultError{
		Kind:    kind,
		Message: message,
		Filters: echoFilters(p),
	}}
}

// successResult fills the common success fields and applies the display cap.
func successResult(value decimal.Decimal, formatted string, rowCount int, full *Table) *QueryResult {
	return &QueryResult{
		Value:     value,
		Formatted: formatted,
		RowCount:  rowCount,
		Table:     full.head(maxDisplayRows),
		Export:    full,
	}
}

// formatCurrency renders a money value with thousands separators and two
// decimal places, e.g. "₹1,234,567.89".
func formatCurrency(d decimal.Decimal) string {
	return "₹" + groupThousands(d.StringFixed(2))
}

// formatCount renders an integer count with thousands separators and a unit
// suffix, e.g. "1,204 stores".
func formatCount(n int, unit string) string {
	return fmt.Sprintf("%s %s", groupThousands(fmt.Sprintf("%d", n)), unit)
}

// groupThousands inserts comma separators into the integer part of a plain
// decimal string. The sign and fractional part pass through untouched.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}

// cell renders an optional decimal for a table cell. Null renders empty.
func cell(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// yearCell renders an optional year for a table cell.
func yearCell(y *int) string {
	if y == nil {
		return ""
	}
	return fmt.Sprintf("%d", *y)
}
