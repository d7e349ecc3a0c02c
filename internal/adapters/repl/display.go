package repl

import (
	"fmt"
	"strings"

	"sales-agent/internal/app"
	"sales-agent/internal/core"
)

// maxREPLRows bounds the rows printed inline; the full table is still
// available via /export.
const maxREPLRows = 20

func printAskResult(res *app.AskResult) {
	fmt.Println(res.Message)

	r := res.Result
	if r == nil {
		return
	}
	if r.IsError() {
		if len(r.Error.Filters) > 0 {
			fmt.Printf("Filters applied: %s\n", formatFilters(r.Error.Filters))
		}
		// An insufficient-data comparison still carries the partial table.
		if r.Table != nil && len(r.Table.Rows) > 0 {
			printTable(r.Table)
		}
		return
	}

	if r.Table != nil && len(r.Table.Rows) > 0 {
		printTable(r.Table)
		if r.RowCount > len(r.Table.Rows) {
			fmt.Printf("  (%s of %s rows shown — /export for all)\n",
				groupedInt(len(r.Table.Rows)), groupedInt(r.RowCount))
		}
	}
	if res.Chart != nil {
		fmt.Printf("  [chart: %s — %s]\n", res.Chart.ChartType, res.Chart.Title)
	}
}

func printTable(t *core.Table) {
	rows := t.Rows
	if len(rows) > maxREPLRows {
		rows = rows[:maxREPLRows]
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return "  " + strings.Join(parts, "  ")
	}

	total := 2
	for _, w := range widths {
		total += w + 2
	}
	fmt.Println(strings.Repeat("-", total))
	fmt.Println(line(t.Columns))
	fmt.Println(strings.Repeat("-", total))
	for _, row := range rows {
		fmt.Println(line(row))
	}
	fmt.Println(strings.Repeat("-", total))
}

func printInfo(info *app.DatasetInfoResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-42s\n", "DATASET")
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-16s %s\n", "Records", groupedInt(info.Summary.TotalRows))
	fmt.Printf("  %-16s %s\n", "Years", info.Summary.YearRange)
	fmt.Printf("  %-16s ₹%s\n", "Total sales", info.Summary.TotalSales.StringFixed(2))
	fmt.Printf("  %-16s %d\n", "Brands", info.Summary.UniqueBrands)
	fmt.Printf("  %-16s %d\n", "Stores", info.Summary.UniqueStores)
	fmt.Println(strings.Repeat("=", 46))
}

func printExamples(cats []app.ExampleCategory) {
	for _, c := range cats {
		fmt.Printf("\n%s:\n", c.Category)
		for _, q := range c.Queries {
			fmt.Printf("  - %s\n", q)
		}
	}
}

func formatFilters(filters map[string]string) string {
	// Stable-ish, readable order for the common keys.
	order := []string{"brand", "product", "month", "year", "region", "metric", "aggregation", "comparison", "top_n"}
	parts := make([]string, 0, len(filters))
	for _, k := range order {
		if v, ok := filters[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
	}
	return strings.Join(parts, ", ")
}

func groupedInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
