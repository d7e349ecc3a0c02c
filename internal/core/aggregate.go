package core

import (
	"github.com/shopspring/decimal"
)

// aggregate is the standard (non-ranked, non-comparison) terminal stage.
func aggregate(ds *Dataset, idx []int, p Params) *QueryResult {
	switch p.Metric {
	case MetricSales:
		switch p.Aggregation {
		case AggregationSum:
			total, _ := sumSales(ds, idx)
			return successResult(total, formatCurrency(total), len(idx), salesTable(ds, idx))
		case AggregationAverage:
			total, n := sumSales(ds, idx)
			avg := decimal.Zero
			if n > 0 {
				avg = total.Div(decimal.NewFromInt(int64(n)))
			}
			return successResult(avg, formatCurrency(avg), len(idx), salesTable(ds, idx))
		}
	case MetricActiveStores:
		return aggregateActiveStores(ds, idx)
	}

	// Default path: any other metric/aggregation combination returns the
	// filtered row count, with the rows projected onto every available column.
	count := decimal.NewFromInt(int64(len(idx)))
	return successResult(count, formatCount(len(idx), "records"), len(idx), recordTable(ds, idx))
}

// aggregateActiveStores counts stores whose net sales over the entire
// filtered set are strictly positive. The whole filtered set is one grouping
// here — a store returning everything it sold (+100, -100) is not active.
func aggregateActiveStores(ds *Dataset, idx []int) *QueryResult {
	net := make(map[string]decimal.Decimal)
	first := make(map[string]int) // store id -> first row index
	order := make([]string, 0)
	for _, i := range idx {
		r := &ds.Rows[i]
		if _, seen := net[r.StoreID]; !seen {
			order = append(order, r.StoreID)
			first[r.StoreID] = i
		}
		if r.Sales.Valid {
			net[r.StoreID] = net[r.StoreID].Add(r.Sales.Decimal)
		}
	}

	full := &Table{Columns: []string{"brand", "month", "year", "store_id"}}
	active := 0
	for _, store := range order {
		if !net[store].IsPositive() {
			continue
		}
		active++
		r := &ds.Rows[first[store]]
		full.Rows = append(full.Rows, []string{r.Brand, r.Month, yearCell(r.Year), r.StoreID})
	}

	value := decimal.NewFromInt(int64(active))
	return successResult(value, formatCount(active, "stores"), len(idx), full)
}

// sumSales totals the non-null sales values over the selected rows and
// returns the count of non-null values contributing to the sum.
func sumSales(ds *Dataset, idx []int) (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, i := range idx {
		if s := ds.Rows[i].Sales; s.Valid {
			total = total.Add(s.Decimal)
			n++
		}
	}
	return total, n
}

// recordTable projects the selected rows onto every column the dataset
// actually has, in original ledger order.
func recordTable(ds *Dataset, idx []int) *Table {
	cols := []string{"brand"}
	if ds.Caps.HasCategory {
		cols = append(cols, "category")
	}
	if ds.Caps.HasSubBrand {
		cols = append(cols, "sub_brand")
	}
	cols = append(cols, "month", "year")
	if ds.Caps.HasArea {
		cols = append(cols, "area")
	}
	if ds.Caps.HasCity {
		cols = append(cols, "city")
	}
	if ds.Caps.HasStoreID {
		cols = append(cols, "store_id")
	}
	cols = append(cols, "sales")

	t := &Table{Columns: cols, Rows: make([][]string, 0, len(idx))}
	for _, i := range idx {
		r := &ds.Rows[i]
		cells := []string{r.Brand}
		if ds.Caps.HasCategory {
			cells = append(cells, r.Category)
		}
		if ds.Caps.HasSubBrand {
			cells = append(cells, r.SubBrand)
		}
		cells = append(cells, r.Month, yearCell(r.Year))
		if ds.Caps.HasArea {
			cells = append(cells, r.Area)
		}
		if ds.Caps.HasCity {
			cells = append(cells, r.City)
		}
		if ds.Caps.HasStoreID {
			cells = append(cells, r.StoreID)
		}
		cells = append(cells, cell(r.Sales))
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// salesTable projects the selected rows onto the standard display columns in
// original ledger order.
func salesTable(ds *Dataset, idx []int) *Table {
	t := &Table{
		Columns: []string{"brand", "month", "year", "sales"},
		Rows:    make([][]string, 0, len(idx)),
	}
	for _, i := range idx {
		r := &ds.Rows[i]
		t.Rows = append(t.Rows, []string{r.Brand, r.Month, yearCell(r.Year), cell(r.Sales)})
	}
	return t
}
