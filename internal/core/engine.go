package core

import "strings"

// Query filters the dataset by the given parameters and dispatches to exactly
// one terminal stage. Precedence is fixed: top-N wins over comparison wins
// over standard aggregation. All failure modes come back as the error variant
// of QueryResult, never as a Go error.
func Query(ds *Dataset, p Params) *QueryResult {
	if ds == nil || len(ds.Rows) == 0 {
		return errorResult(ErrNoData, "No data available", p)
	}

	idx := applyFilters(ds, p)
	if len(idx) == 0 {
		return errorResult(ErrNoData, "No results match your filters. Try different criteria.", p)
	}

	switch {
	case p.TopN != nil:
		return topN(ds, idx, p)
	case p.Comparison == ComparisonYoY:
		return compareYoY(ds, idx, p)
	default:
		return aggregate(ds, idx, p)
	}
}

// applyFilters returns the indices of rows matching every present predicate.
// Indices preserve original row order, so downstream stages and display
// tables keep ledger order without copying rows.
func applyFilters(ds *Dataset, p Params) []int {
	brand := strings.ToLower(p.Brand)
	product := strings.ToLower(p.Product)
	region := strings.ToLower(p.Region)
	month := NormalizeMonth(p.Month)

	// The product predicate matches the category column when the dataset has
	// one, else the sub-brand column, else it is silently skipped.
	matchProduct := func(r *Record) bool { return true }
	if product != "" {
		switch {
		case ds.Caps.HasCategory:
			matchProduct = func(r *Record) bool { return strings.ToLower(r.Category) == product }
		case ds.Caps.HasSubBrand:
			matchProduct = func(r *Record) bool { return strings.ToLower(r.SubBrand) == product }
		}
	}

	// The year predicate is intentionally suppressed for a YoY comparison:
	// the comparison stage needs multiple years in the working set.
	filterYear := p.Year != nil && p.Comparison != ComparisonYoY

	// Region matches the area column OR the city column. With neither column
	// present the predicate is skipped, like an absent product column.
	filterRegion := region != "" && (ds.Caps.HasArea || ds.Caps.HasCity)

	idx := make([]int, 0, len(ds.Rows))
	for i := range ds.Rows {
		r := &ds.Rows[i]
		if brand != "" && strings.ToLower(r.Brand) != brand {
			continue
		}
		if !matchProduct(r) {
			continue
		}
		if month != "" && r.Month != month {
			continue
		}
		if filterYear && (r.Year == nil || *r.Year != *p.Year) {
			continue
		}
		if filterRegion && strings.ToLower(r.Area) != region && strings.ToLower(r.City) != region {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}
