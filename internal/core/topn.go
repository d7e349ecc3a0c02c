package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// group is one ranked entry of a top-N result.
type group struct {
	key   string
	value decimal.Decimal
}

// topN is the ranking terminal stage. It groups the filtered rows by brand,
// ranks by the chosen metric and bounds the result to the N largest groups.
// Percentage shares are relative to the sum of the selected groups, not the
// grand total of the filtered set.
func topN(ds *Dataset, idx []int, p Params) *QueryResult {
	n := *p.TopN

	switch p.Metric {
	case MetricSales:
		groups := rankDesc(brandSums(ds, idx), n)
		res := rankedResult(groups, "sales", len(idx))
		res.Value = decimal.NewFromInt(int64(n))
		res.Formatted = fmt.Sprintf("Top %d brands by sales", n)
		return res

	case MetricActiveStores:
		groups := rankDesc(brandActiveStores(ds, idx), n)
		res := rankedResult(groups, "active_stores", len(idx))
		res.Value = decimal.NewFromInt(int64(n))
		res.Formatted = fmt.Sprintf("Top %d brands by active stores", n)
		return res
	}

	return errorResult(ErrInvalidMetric, "Invalid metric for top N query", p)
}

// brandSums sums sales per brand, keeping first-occurrence brand order.
func brandSums(ds *Dataset, idx []int) []group {
	sums := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, i := range idx {
		r := &ds.Rows[i]
		if _, seen := sums[r.Brand]; !seen {
			order = append(order, r.Brand)
			sums[r.Brand] = decimal.Zero
		}
		if r.Sales.Valid {
			sums[r.Brand] = sums[r.Brand].Add(r.Sales.Decimal)
		}
	}
	groups := make([]group, 0, len(order))
	for _, b := range order {
		groups = append(groups, group{key: b, value: sums[b]})
	}
	return groups
}

// brandActiveStores counts, per brand, the stores whose net sales within that
// brand are strictly positive. The grouping key for the active-store test is
// the (brand, store) pair, not the store globally.
func brandActiveStores(ds *Dataset, idx []int) []group {
	type pair struct{ brand, store string }
	net := make(map[pair]decimal.Decimal)
	pairOrder := make([]pair, 0)
	for _, i := range idx {
		r := &ds.Rows[i]
		k := pair{r.Brand, r.StoreID}
		if _, seen := net[k]; !seen {
			pairOrder = append(pairOrder, k)
			net[k] = decimal.Zero
		}
		if r.Sales.Valid {
			net[k] = net[k].Add(r.Sales.Decimal)
		}
	}

	// Pairs with non-positive net are discarded before grouping, so a brand
	// whose stores all net to zero or less drops out of the ranking entirely
	// instead of appearing with a zero count.
	counts := make(map[string]int)
	brandOrder := make([]string, 0)
	for _, k := range pairOrder {
		if !net[k].IsPositive() {
			continue
		}
		if _, seen := counts[k.brand]; !seen {
			brandOrder = append(brandOrder, k.brand)
		}
		counts[k.brand]++
	}

	groups := make([]group, 0, len(brandOrder))
	for _, b := range brandOrder {
		groups = append(groups, group{key: b, value: decimal.NewFromInt(int64(counts[b]))})
	}
	return groups
}

// rankDesc returns the n largest groups by value. The sort is stable over
// first-occurrence order, so ties keep the order the brands appear in the
// filtered set.
func rankDesc(groups []group, n int) []group {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].value.GreaterThan(groups[j].value)
	})
	if n < len(groups) {
		groups = groups[:n]
	}
	return groups
}

// rankedResult builds the bounded result table with percentage shares of the
// selected groups' sum, rounded to 2 decimals.
func rankedResult(groups []group, valueColumn string, rowCount int) *QueryResult {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.value)
	}

	full := &Table{Columns: []string{"brand", valueColumn, "percentage"}}
	series := make([]Point, 0, len(groups))
	for _, g := range groups {
		share := decimal.Zero
		if !total.IsZero() {
			share = g.value.Div(total).Mul(oneHundred).Round(2)
		}
		full.Rows = append(full.Rows, []string{g.key, g.value.String(), share.StringFixed(2)})
		series = append(series, Point{Label: g.key, Value: g.value.InexactFloat64()})
	}

	res := successResult(decimal.Zero, "", rowCount, full)
	res.ChartType = ChartBar
	res.Series = series
	return res
}
