package core_test

import (
	"testing"

	"sales-agent/internal/core"
)

func TestAggregate_SumExcludesNullSales(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "", "", "100.50"),
		nullSalesRow("Lays", "JAN", 2024, "S2"),
		row("Lays", "JAN", 2024, "S3", "", "", "-0.50"),
	)
	res := core.Query(ds, core.DefaultParams())
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	if got := res.Value.String(); got != "100" {
		t.Errorf("sum = %s, want 100", got)
	}
	// Null-sales rows are excluded from the sum but still counted.
	if res.RowCount != 3 {
		t.Errorf("row_count = %d, want 3", res.RowCount)
	}
	if res.Formatted != "₹100.00" {
		t.Errorf("formatted = %q, want ₹100.00", res.Formatted)
	}
}

func TestAggregate_AverageExcludesNullSales(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "", "", "100"),
		row("Lays", "JAN", 2024, "S2", "", "", "200"),
		nullSalesRow("Lays", "JAN", 2024, "S3"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Aggregation = core.AggregationAverage }))
	if got := res.Value.String(); got != "150" {
		t.Errorf("average = %s, want 150 (null excluded from denominator)", got)
	}
	if res.RowCount != 3 {
		t.Errorf("row_count = %d, want 3", res.RowCount)
	}
}

func TestAggregate_CountFallsThroughToRowCount(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "", "", "100"),
		nullSalesRow("Lays", "JAN", 2024, "S2"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Aggregation = core.AggregationCount }))
	if got := res.Value.String(); got != "2" {
		t.Errorf("value = %s, want 2", got)
	}
	if res.Formatted != "2 records" {
		t.Errorf("formatted = %q, want \"2 records\"", res.Formatted)
	}
}

func TestAggregate_CountTableProjectsAllColumns(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "North", "Pune", "100"),
		nullSalesRow("Lays", "JAN", 2024, "S2"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Aggregation = core.AggregationCount }))
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	wantCols := []string{"brand", "month", "year", "area", "city", "store_id", "sales"}
	if len(res.Table.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", res.Table.Columns, wantCols)
	}
	for i, c := range wantCols {
		if res.Table.Columns[i] != c {
			t.Fatalf("columns = %v, want %v", res.Table.Columns, wantCols)
		}
	}
	if res.Table.Rows[0][3] != "North" || res.Table.Rows[0][4] != "Pune" || res.Table.Rows[0][5] != "S1" {
		t.Errorf("first row = %v, want area/city/store cells filled", res.Table.Rows[0])
	}
	// The null sales value renders as the empty cell.
	if res.Table.Rows[1][6] != "" {
		t.Errorf("null sales cell = %q, want empty", res.Table.Rows[1][6])
	}
}

func TestAggregate_ActiveStoresNetPositiveOnly(t *testing.T) {
	// Store A nets to zero (+100, -100) and is NOT active.
	// Store B nets to +50 and IS active.
	ds := dataset(
		row("Lays", "JAN", 2024, "A", "", "", "100"),
		row("Lays", "FEB", 2024, "A", "", "", "-100"),
		row("Lays", "JAN", 2024, "B", "", "", "100"),
		row("Lays", "MAR", 2024, "B", "", "", "-50"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Metric = core.MetricActiveStores }))
	if res.IsError() {
		t.Fatalf("unexpected error: %+v", res.Error)
	}
	if got := res.Value.String(); got != "1" {
		t.Errorf("active stores = %s, want 1", got)
	}
	if res.Formatted != "1 stores" {
		t.Errorf("formatted = %q, want \"1 stores\"", res.Formatted)
	}
	if res.RowCount != 4 {
		t.Errorf("row_count = %d, want 4", res.RowCount)
	}
	if len(res.Export.Rows) != 1 || res.Export.Rows[0][3] != "B" {
		t.Errorf("display table should hold one row for store B, got %v", res.Export.Rows)
	}
}

func TestAggregate_ActiveStoresSingleGroupingAcrossFilteredSet(t *testing.T) {
	// Store A sells under two brands: +100 and -100. As ONE grouping over the
	// whole filtered set it nets to zero, so it is not active even though the
	// Lays rows alone are positive.
	ds := dataset(
		row("Lays", "JAN", 2024, "A", "", "", "100"),
		row("Coke", "JAN", 2024, "A", "", "", "-100"),
	)
	res := core.Query(ds, params(func(p *core.Params) { p.Metric = core.MetricActiveStores }))
	if got := res.Value.String(); got != "0" {
		t.Errorf("active stores = %s, want 0 (global grouping)", got)
	}
}

func TestFormatting_ThousandsSeparators(t *testing.T) {
	ds := dataset(
		row("Lays", "JAN", 2024, "S1", "", "", "1234567.891"),
	)
	res := core.Query(ds, core.DefaultParams())
	if res.Formatted != "₹1,234,567.89" {
		t.Errorf("formatted = %q, want ₹1,234,567.89", res.Formatted)
	}

	ds2 := dataset(row("Lays", "JAN", 2024, "S1", "", "", "-1234.5"))
	res2 := core.Query(ds2, core.DefaultParams())
	if res2.Formatted != "₹-1,234.50" {
		t.Errorf("formatted = %q, want ₹-1,234.50", res2.Formatted)
	}
}

func TestDisplayTableCappedExportUncapped(t *testing.T) {
	rows := make([]core.Record, 0, 150)
	for i := 0; i < 150; i++ {
		rows = append(rows, row("Lays", "JAN", 2024, "S1", "", "", "1"))
	}
	res := core.Query(dataset(rows...), core.DefaultParams())
	if len(res.Table.Rows) != 100 {
		t.Errorf("display table rows = %d, want 100", len(res.Table.Rows))
	}
	if len(res.Export.Rows) != 150 {
		t.Errorf("export table rows = %d, want 150", len(res.Export.Rows))
	}
	if res.RowCount != 150 {
		t.Errorf("row_count = %d, want uncapped 150", res.RowCount)
	}
}
