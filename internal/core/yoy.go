package core

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// yearTotal is one year's aggregated value in a comparison.
type yearTotal struct {
	year  int
	value decimal.Decimal
}

// compareYoY is the year-over-year terminal stage. The filter stage has
// already suppressed any year predicate, so the working set spans every year
// the filters otherwise allow. Rows with an unknown year are skipped from the
// grouping.
func compareYoY(ds *Dataset, idx []int, p Params) *QueryResult {
	var totals []yearTotal
	var valueColumn string

	switch p.Metric {
	case MetricSales:
		totals = yearSums(ds, idx)
		valueColumn = "sales"
	case MetricActiveStores:
		totals = yearActiveStores(ds, idx)
		valueColumn = "active_stores"
	default:
		return errorResult(ErrInvalidMetric, "Invalid metric for YoY comparison", p)
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].year < totals[j].year })

	if len(totals) < 2 {
		// Attach the partial single-year table so the caller can still show
		// what the filters produced.
		res := errorResult(ErrInsufficientData, "Need at least 2 years of data for YoY comparison", p)
		partial := &Table{Columns: []string{"year", valueColumn}}
		for _, t := range totals {
			partial.Rows = append(partial.Rows, []string{strconv.Itoa(t.year), t.value.String()})
		}
		res.Table = partial
		res.Export = partial
		res.RowCount = len(idx)
		return res
	}

	full := &Table{Columns: []string{"year", valueColumn, "yoy_change_pct", "yoy_change_abs"}}
	series := make([]Point, 0, len(totals))
	for i, t := range totals {
		pctCell, absCell := "", ""
		if i > 0 {
			prev := totals[i-1].value
			diff := t.value.Sub(prev)
			absCell = diff.String()
			// Percent change against a zero base is undefined; leave it null.
			if !prev.IsZero() {
				pctCell = diff.Div(prev).Mul(oneHundred).Round(2).StringFixed(2)
			}
		}
		full.Rows = append(full.Rows, []string{strconv.Itoa(t.year), t.value.String(), pctCell, absCell})
		series = append(series, Point{Label: strconv.Itoa(t.year), Value: t.value.InexactFloat64()})
	}

	label := "sales"
	if p.Metric == MetricActiveStores {
		label = "active stores"
	}
	res := successResult(
		decimal.NewFromInt(int64(len(totals))),
		fmt.Sprintf("Year-over-year %s comparison (%d years)", label, len(totals)),
		len(idx),
		full,
	)
	res.ChartType = ChartLine
	res.Series = series
	return res
}

// yearSums sums sales per known year.
func yearSums(ds *Dataset, idx []int) []yearTotal {
	sums := make(map[int]decimal.Decimal)
	for _, i := range idx {
		r := &ds.Rows[i]
		if r.Year == nil {
			continue
		}
		if r.Sales.Valid {
			sums[*r.Year] = sums[*r.Year].Add(r.Sales.Decimal)
		} else if _, seen := sums[*r.Year]; !seen {
			sums[*r.Year] = decimal.Zero
		}
	}
	totals := make([]yearTotal, 0, len(sums))
	for y, v := range sums {
		totals = append(totals, yearTotal{year: y, value: v})
	}
	return totals
}

// yearActiveStores counts, per known year, the stores whose net sales within
// that year are strictly positive. A year with no positive-net store has no
// entry at all; it does not appear as a zero in the comparison.
func yearActiveStores(ds *Dataset, idx []int) []yearTotal {
	type pair struct {
		year  int
		store string
	}
	net := make(map[pair]decimal.Decimal)
	for _, i := range idx {
		r := &ds.Rows[i]
		if r.Year == nil {
			continue
		}
		k := pair{*r.Year, r.StoreID}
		if r.Sales.Valid {
			net[k] = net[k].Add(r.Sales.Decimal)
		} else if _, seen := net[k]; !seen {
			net[k] = decimal.Zero
		}
	}

	counts := make(map[int]int)
	for k, v := range net {
		if v.IsPositive() {
			counts[k.year]++
		}
	}
	totals := make([]yearTotal, 0, len(counts))
	for y, c := range counts {
		totals = append(totals, yearTotal{year: y, value: decimal.NewFromInt(int64(c))})
	}
	return totals
}
