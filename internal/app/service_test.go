package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"sales-agent/internal/app"
	"sales-agent/internal/core"
)

// stubExtractor returns a fixed parameter set without any network calls.
type stubExtractor struct {
	params core.Params
	asked  string
}

func (s *stubExtractor) Extract(_ context.Context, question string) core.Params {
	s.asked = question
	return s.params
}

func record(brand, month string, year int, sales string) core.Record {
	d := decimal.RequireFromString(sales)
	return core.Record{
		Brand: brand, Month: month, Year: &year, StoreID: "S1",
		Sales: decimal.NullDecimal{Decimal: d, Valid: true},
	}
}

func testDataset() *core.Dataset {
	return &core.Dataset{
		Rows: []core.Record{
			record("Lays", "JAN", 2023, "1000"),
			record("Lays", "JAN", 2024, "1500"),
		},
		Caps: core.Capabilities{HasStoreID: true},
	}
}

func TestAsk_WiresExtractionQueryAndFormatting(t *testing.T) {
	ext := &stubExtractor{params: core.DefaultParams()}
	svc := app.NewAppService(testDataset(), nil, ext)

	res, err := svc.Ask(context.Background(), "total sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.asked != "total sales" {
		t.Errorf("extractor got question %q", ext.asked)
	}
	if res.Result.IsError() {
		t.Fatalf("unexpected query error: %+v", res.Result.Error)
	}
	if res.Message != "💰 **₹2,500.00**" {
		t.Errorf("message = %q", res.Message)
	}
	if res.Chart != nil {
		t.Errorf("standard result should carry no chart, got %+v", res.Chart)
	}
}

func TestAsk_ChartForRankedResult(t *testing.T) {
	n := 1
	p := core.DefaultParams()
	p.TopN = &n
	svc := app.NewAppService(testDataset(), nil, &stubExtractor{params: p})

	res, err := svc.Ask(context.Background(), "top 1 brand")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Chart == nil || res.Chart.ChartType != "bar" {
		t.Errorf("chart = %+v, want bar", res.Chart)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := app.NewAppService(testDataset(), nil, &stubExtractor{params: core.DefaultParams()})
	if _, err := svc.Ask(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestReload_SwapsSnapshot(t *testing.T) {
	calls := 0
	loader := func(context.Context) (*core.Dataset, error) {
		calls++
		return &core.Dataset{
			Rows: []core.Record{record("Coke", "JAN", 2024, "42")},
		}, nil
	}
	svc := app.NewAppService(testDataset(), loader, &stubExtractor{params: core.DefaultParams()})

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader calls = %d", calls)
	}

	res, err := svc.Query(context.Background(), core.DefaultParams())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Value.String() != "42" {
		t.Errorf("value after reload = %s, want 42", res.Value)
	}
}

func TestReload_FailureKeepsOldSnapshot(t *testing.T) {
	loader := func(context.Context) (*core.Dataset, error) {
		return nil, fmt.Errorf("source unavailable")
	}
	svc := app.NewAppService(testDataset(), loader, &stubExtractor{params: core.DefaultParams()})

	if err := svc.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	res, _ := svc.Query(context.Background(), core.DefaultParams())
	if res.Value.String() != "2500" {
		t.Errorf("old snapshot should survive failed reload, value = %s", res.Value)
	}
}

func TestDatasetInfo(t *testing.T) {
	svc := app.NewAppService(testDataset(), nil, &stubExtractor{params: core.DefaultParams()})
	info, err := svc.DatasetInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Summary.TotalRows != 2 || info.Summary.YearRange != "2023 - 2024" {
		t.Errorf("summary = %+v", info.Summary)
	}
}

func TestExampleQueries_NonEmpty(t *testing.T) {
	svc := app.NewAppService(testDataset(), nil, &stubExtractor{params: core.DefaultParams()})
	cats := svc.ExampleQueries()
	if len(cats) == 0 {
		t.Fatal("expected example categories")
	}
	for _, c := range cats {
		if c.Category == "" || len(c.Queries) == 0 {
			t.Errorf("bad category %+v", c)
		}
	}
}
