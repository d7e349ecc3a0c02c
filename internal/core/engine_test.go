package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"sales-agent/internal/core"
)

// row builds a ledger record with a parsed sales value.
func row(brand, month string, year int, store, area, city string, sales string) core.Record {
	d := decimal.RequireFromString(sales)
	return core.Record{
		Brand:   brand,
		Month:   month,
		Year:    &year,
		Area:    area,
		City:    city,
		StoreID: store,
		Sales:   decimal.NullDecimal{Decimal: d, Valid: true},
	}
}

// nullSalesRow builds a record whose sales value is null.
func nullSalesRow(brand, month string, year int, store string) core.Record {
	r := row(brand, month, year, store, "", "", "0")
	r.Sales = decimal.NullDecimal{}
	return r
}

func dataset(rows ...core.Record) *core.Dataset {
	return &core.Dataset{
		Rows: rows,
		Caps: core.Capabilities{HasArea: true, HasCity: true, HasStoreID: true},
	}
}

func params(mut func(*core.Params)) core.Params {
	p := core.DefaultParams()
	if mut != nil {
		mut(&p)
	}
	return p
}

func TestQuery_EmptyDataset(t *testing.T) {
	res := core.Query(&core.Dataset{}, core.DefaultParams())
	if !res.IsError() || res.Error.Kind != core.ErrNoData {
		t.Fatalf("expected no_data error, got %+v", res)
	}
}

func TestQuery_NoMatchEchoesFilters(t *testing.T) {
	ds := dataset(row("Lays", "JAN", 2024, "S1", "North", "", "100"))
	res := core.Query(ds, params(func(p *core.Params) {
		p.Brand = "Coke"
		p.Month = "January"
		y := 2024
		p.Year = &y
	}))
	if !res.IsError() || res.Error.Kind != core.ErrNoData {
		t.Fatalf("expected no_data error, got %+v", res)
	}
	if res.Error.Filters["brand"] != "Coke" {
		t.Errorf("echoed brand = %q, want Coke", res.Error.Filters["brand"])
	}
	if res.Error.Filters["month"] != "January" {
		t.Errorf("echoed month = %q, want January", res.Error.Filters["month"])
	}
	if res.Error.Filters["year"] != "2024" {
		t.Errorf("echoed year = %q, want 2024", res.Error.Filters["year"])
	}
}

func TestQuery_BrandFilterCaseInsensitive(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "", "", "100"),
		row("Coke", "JAN", 2024, "S1", "", "", "50"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Brand = "lays" }))
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	if res.RowCount != 1 {
		t.Errorf("row_count = %d, want 1", res.RowCount)
	}
	if got := res.Value.String(); got != "100" {
		t.Errorf("value = %s, want 100", got)
	}
}

func TestQuery_MonthFilterNormalizesParameter(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "", "", "100"),
		row("Lays", "FEB", 2024, "S1", "", "", "40"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Month = "January" }))
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	if got := res.Value.String(); got != "100" {
		t.Errorf("value = %s, want 100", got)
	}
}

func TestQuery_RegionMatchesAreaOrCity(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "North", "Delhi", "100"),
		row("Lays", "JAN", 2024, "S2", "South", "North", "25"), // city matches
		row("Lays", "JAN", 2024, "S3", "South", "Chennai", "7"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Region = "north" }))
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	if res.RowCount != 2 {
		t.Errorf("row_count = %d, want 2 (area OR city)", res.RowCount)
	}
	if got := res.Value.String(); got != "125" {
		t.Errorf("value = %s, want 125", got)
	}
}

func TestQuery_RegionSkippedWithoutColumns(t *testing.T) {
	ds := dataset(row("Lays", "JAN", 2024, "S1", "North", "", "100"))
	ds.Caps.HasArea = false
	ds.Caps.HasCity = false
	res := core.Query(ds, params(func(p *core.Params) { p.Region = "Mars" }))
	if res.IsError() {
		t.Fatalf("region filter should be skipped without area/city columns, got %+v", res.Error)
	}
}

func TestQuery_ProductFiltersCategoryThenSubBrand(t *testing.T) {
	r1 := row("Lays", "JAN", 2024, "S1", "", "", "100")
	r1.Category = "Biscuits"
	r1.SubBrand = "Classic"
	r2 := row("Lays", "JAN", 2024, "S2", "", "", "60")
	r2.Category = "Cheese"
	r2.SubBrand = "Biscuits"

	ds := dataset(r1, r2)
	ds.Caps.HasCategory = true
	ds.Caps.HasSubBrand = true

	res := core.Query(ds, params(func(p *core.Params) { p.Product = "biscuits" }))
	if res.RowCount != 1 || res.Value.String() != "100" {
		t.Errorf("category column should win: row_count=%d value=%s", res.RowCount, res.Value.String())
	}

	// With no category column, the sub-brand column is consulted instead.
	ds.Caps.HasCategory = false
	res = core.Query(ds, params(func(p *core.Params) { p.Product = "biscuits" }))
	if res.RowCount != 1 || res.Value.String() != "60" {
		t.Errorf("sub_brand fallback: row_count=%d value=%s", res.RowCount, res.Value.String())
	}

	// With neither column, the product predicate is a silent no-op.
	ds.Caps.HasSubBrand = false
	res = core.Query(ds, params(func(p *core.Params) { p.Product = "biscuits" }))
	if res.RowCount != 2 {
		t.Errorf("product filter should be skipped, row_count=%d", res.RowCount)
	}
}

func TestQuery_YearFilterSuppressedForYoY(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2023, "S1", "", "", "1000"),
		row("Lays", "JAN", 2024, "S1", "", "", "1500"),
	)
	res := core.Query(ds, params(func(p *core.Params) {
		y := 2024
		p.Year = &y
		p.Comparison = core.ComparisonYoY
	}))
	if res.IsError() {
		t.Fatalf("year filter must be ignored under yoy; got %+v", res.Error)
	}
	if len(res.Export.Rows) != 2 {
		t.Errorf("expected both years in comparison, got %d rows", len(res.Export.Rows))
	}
}

func TestQuery_TopNPrecedesComparison(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2023, "S1", "", "", "10"),
		row("Coke", "JAN", 2024, "S2", "", "", "20"),
	)
	res := core.Query(ds, params(func(p *core.Params) {
		n := 1
		p.TopN = &n
		p.Comparison = core.ComparisonYoY
	}))
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	if res.ChartType != core.ChartBar {
		t.Errorf("top-n must win over comparison; chart = %q", res.ChartType)
	}
}

func TestQuery_UnparsableTopNFallsThroughToAggregation(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "", "", "100"),
		row("Coke", "JAN", 2024, "S2", "", "", "50"),
	)
	p := core.NormalizeInput(core.ParamInput{TopN: "lots"})
	res := core.Query(ds, p)
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	if res.ChartType != core.ChartNone {
		t.Errorf("expected standard aggregation, got chart %q", res.ChartType)
	}
	if got := res.Value.String(); got != "150" {
		t.Errorf("value = %s, want 150", got)
	}
}
