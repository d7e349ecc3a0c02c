package export_test

import (
	"strings"
	"testing"
	"time"

	"sales-agent/internal/core"
	"sales-agent/internal/export"
)

func TestEncode(t *testing.T) {
	table := &core.Table{
		Columns: []string{"brand", "sales", "percentage"},
		Rows: [][]string{
			{"Lays", "600", "66.67"},
			{"Co,ke", "300", "33.33"}, // comma must be quoted
		},
	}
	out, err := export.Encode(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "brand,sales,percentage" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != `"Co,ke",300,33.33` {
		t.Errorf("quoted row = %q", lines[2])
	}
}

func TestEncode_NilTable(t *testing.T) {
	if _, err := export.Encode(nil); err == nil {
		t.Fatal("expected error for nil table")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 25, 1, 0, time.UTC)

	got := export.Filename("Top 5 brands by sales?", now)
	want := "sales_data_Top_5_brands_by_sales_20260830_142501.csv"
	if got != want {
		t.Errorf("filename = %q, want %q", got, want)
	}

	if got := export.Filename("", now); got != "sales_data_20260830_142501.csv" {
		t.Errorf("empty-question filename = %q", got)
	}

	// Long questions are truncated before slugging.
	long := strings.Repeat("sales ", 20)
	got = export.Filename(long, now)
	if len(got) > len("sales_data_")+30+len("_20260830_142501.csv") {
		t.Errorf("filename too long: %q", got)
	}
}
