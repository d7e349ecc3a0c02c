// Package viz builds render-ready chart configurations from query results.
// It is presentation-only: the query engine emits a chart-type hint and a
// label/value series, and this package shapes them for a frontend. The engine
// never consults it.
package viz

import (
	"fmt"

	"sales-agent/internal/core"
)

// ChartConfig defines how a consumer should render a chart.
type ChartConfig struct {
	ChartType string  `json:"chart_type"`
	Title     string  `json:"title"`
	XAxis     string  `json:"x_axis"`
	YAxis     string  `json:"y_axis"`
	Points    []Point `json:"points"`
}

// Point is a single labeled value.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Build returns a chart configuration for the result, or nil when the result
// carries no chart hint or no series (standard aggregations render no chart).
func Build(res *core.QueryResult, p core.Params) *ChartConfig {
	if res == nil || res.IsError() || res.ChartType == core.ChartNone || len(res.Series) == 0 {
		return nil
	}

	cfg := &ChartConfig{
		ChartType: string(res.ChartType),
		Points:    make([]Point, 0, len(res.Series)),
	}
	for _, pt := range res.Series {
		cfg.Points = append(cfg.Points, Point{Label: pt.Label, Value: pt.Value})
	}

	switch res.ChartType {
	case core.ChartBar:
		n := len(res.Series)
		if p.TopN != nil {
			n = *p.TopN
		}
		cfg.XAxis = "Brand"
		if p.Metric == core.MetricActiveStores {
			cfg.Title = fmt.Sprintf("Top %d Brands by Active Stores", n)
			cfg.YAxis = "Active Stores"
		} else {
			cfg.Title = fmt.Sprintf("Top %d Brands by Sales", n)
			cfg.YAxis = "Sales (₹)"
		}
	case core.ChartLine:
		cfg.XAxis = "Year"
		if p.Metric == core.MetricActiveStores {
			cfg.Title = "Year-over-Year Active Stores Comparison"
			cfg.YAxis = "Active Stores"
		} else {
			cfg.Title = "Year-over-Year Sales Comparison"
			cfg.YAxis = "Sales (₹)"
		}
	}
	return cfg
}
