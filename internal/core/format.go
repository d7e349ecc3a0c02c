package core

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMessage builds the one-line natural-language summary of a result.
// Error results prepend an error glyph and use the message field; ranked and
// comparison results render the formatted field verbatim behind a category
// glyph; standard results append filter context after the formatted value.
func FormatMessage(res *QueryResult, p Params) string {
	if res.IsError() {
		return "❌ " + res.Error.Message
	}

	switch {
	case p.TopN != nil:
		return "📊 " + res.Formatted
	case p.Comparison == ComparisonYoY:
		return "📈 " + res.Formatted
	case p.Metric == MetricActiveStores:
		return strings.TrimSpace("🏪 **" + res.Formatted + "** " + filterContext(p))
	default:
		return strings.TrimSpace("💰 **" + res.Formatted + "** " + filterContext(p))
	}
}

// filterContext renders the present filters as "for {brand} in {month} {year}
// in {region}", omitting absent parts.
func filterContext(p Params) string {
	parts := make([]string, 0, 4)
	if p.Brand != "" {
		parts = append(parts, "for "+p.Brand)
	}
	if p.Month != "" {
		parts = append(parts, "in "+p.Month)
	}
	if p.Year != nil {
		parts = append(parts, strconv.Itoa(*p.Year))
	}
	if p.Region != "" {
		parts = append(parts, "in "+p.Region)
	}
	return strings.Join(parts, " ")
}

// Describe renders the parameter set for diagnostics, e.g. the REPL's debug
// toggle.
func (p Params) Describe() string {
	pairs := make([]string, 0, 9)
	add := func(k, v string) {
		if v != "" {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
		}
	}
	add("brand", p.Brand)
	add("product", p.Product)
	add("month", p.Month)
	if p.Year != nil {
		add("year", strconv.Itoa(*p.Year))
	}
	add("region", p.Region)
	add("metric", string(p.Metric))
	add("aggregation", string(p.Aggregation))
	add("comparison", string(p.Comparison))
	if p.TopN != nil {
		add("top_n", strconv.Itoa(*p.TopN))
	}
	return strings.Join(pairs, " ")
}
