package ingest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"sales-agent/internal/core"
)

// Summary is the dataset overview shown in the REPL banner and the dataset
// info endpoint.
type Summary struct {
	TotalRows    int
	YearRange    string
	TotalSales   decimal.Decimal
	UniqueBrands int
	UniqueStores int
}

// Summarize computes the dataset overview in one pass.
func Summarize(ds *core.Dataset) Summary {
	s := Summary{TotalRows: len(ds.Rows)}
	if len(ds.Rows) == 0 {
		s.YearRange = "N/A"
		return s
	}

	brands := make(map[string]bool)
	stores := make(map[string]bool)
	var minYear, maxYear *int
	for i := range ds.Rows {
		r := &ds.Rows[i]
		brands[r.Brand] = true
		if r.StoreID != "" {
			stores[r.StoreID] = true
		}
		if r.Sales.Valid {
			s.TotalSales = s.TotalSales.Add(r.Sales.Decimal)
		}
		if r.Year != nil {
			if minYear == nil || *r.Year < *minYear {
				minYear = r.Year
			}
			if maxYear == nil || *r.Year > *maxYear {
				maxYear = r.Year
			}
		}
	}

	s.UniqueBrands = len(brands)
	s.UniqueStores = len(stores)
	if minYear != nil {
		s.YearRange = fmt.Sprintf("%d - %d", *minYear, *maxYear)
	} else {
		s.YearRange = "N/A"
	}
	return s
}
