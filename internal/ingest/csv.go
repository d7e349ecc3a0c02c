package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sales-agent/internal/core"
)

// ErrMissingSchema marks a source that lacks one of the required columns.
// Optional columns (category, sub_brand, area, city, store id) are
// feature-detected instead and recorded on the dataset's capabilities.
var ErrMissingSchema = errors.New("missing required columns")

// columnRenames maps raw source headers to their logical names.
var columnRenames = map[string]string{
	"value":                   "sales",
	"customer_account_number": "store_id",
}

var requiredColumns = []string{"brand", "month", "year", "sales"}

// LoadCSV reads a sales ledger from a CSV file into an immutable Dataset.
// Headers are cleaned (lower-cased, spaces to underscores), raw columns are
// renamed to their logical names, months are normalized to canonical codes,
// and unparseable years/sales values become nulls rather than load failures.
func LoadCSV(path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader) (*core.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[cleanColumn(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingSchema, strings.Join(missing, ", "))
	}

	ds := &core.Dataset{Caps: capsFromColumns(col)}

	get := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		ds.Rows = append(ds.Rows, core.Record{
			Brand:    get(record, "brand"),
			Category: get(record, "category"),
			SubBrand: get(record, "sub_brand"),
			Month:    core.NormalizeMonth(get(record, "month")),
			Year:     parseYear(get(record, "year")),
			Area:     get(record, "area"),
			City:     get(record, "city"),
			StoreID:  get(record, "store_id"),
			Sales:    parseSales(get(record, "sales")),
		})
	}
	return ds, nil
}

// cleanColumn lower-cases a header, collapses spaces to underscores and
// applies the source-to-logical renames.
func cleanColumn(name string) string {
	cleaned := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if renamed, ok := columnRenames[cleaned]; ok {
		return renamed
	}
	return cleaned
}

func capsFromColumns(col map[string]int) core.Capabilities {
	_, hasCategory := col["category"]
	_, hasSubBrand := col["sub_brand"]
	_, hasArea := col["area"]
	_, hasCity := col["city"]
	_, hasStore := col["store_id"]
	return core.Capabilities{
		HasCategory: hasCategory,
		HasSubBrand: hasSubBrand,
		HasArea:     hasArea,
		HasCity:     hasCity,
		HasStoreID:  hasStore,
	}
}

// parseYear coerces a raw year cell; failures become null, not errors.
func parseYear(s string) *int {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

// parseSales coerces a raw sales cell, tolerating thousands separators.
// Failures become a null value, excluded from sums but counted in rows.
func parseSales(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
