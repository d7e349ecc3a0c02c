package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"sales-agent/internal/core"
)

// buildPrompt assembles the few-shot extraction prompt for one question.
func buildPrompt(question string) string {
	return fmt.Sprintf(`Extract parameters from this sales data question and return ONLY valid JSON.

Question: %q

Return JSON with these exact fields:
- brand: brand name or null
- product: product/category name or null (e.g., "Biscuits", "Cheese", "Chocolate")
- month: month name or null (e.g., "January", "JAN", "Feb")
- year: year number or null (e.g., 2024, 2025)
- region: region/area/city name or null
- metric: "sales" or "active_stores" (default: "sales")
- aggregation: "sum" or "count" or "average" (default: "sum")
- comparison: "yoy" (year-over-year) or null
- top_n: number for "top N" queries or null (e.g., "top 5 brands" -> 5)

Examples:

Question: "What were Lays sales in January 2024?"
Output: {"brand": "Lays", "product": null, "month": "January", "year": 2024, "region": null, "metric": "sales", "aggregation": "sum", "comparison": null, "top_n": null}

Question: "Compare sales between 2023 and 2024"
Output: {"brand": null, "product": null, "month": null, "year": 2024, "region": null, "metric": "sales", "aggregation": "sum", "comparison": "yoy", "top_n": null}

Question: "Show me top 5 brands by sales"
Output: {"brand": null, "product": null, "month": null, "year": null, "region": null, "metric": "sales", "aggregation": "sum", "comparison": null, "top_n": 5}

Question: "How many active stores did Coke have in 2024?"
Output: {"brand": "Coke", "product": null, "month": null, "year": 2024, "region": null, "metric": "active_stores", "aggregation": "count", "comparison": null, "top_n": null}

Question: "What were total sales of Biscuits in 2024?"
Output: {"brand": null, "product": "Biscuits", "month": null, "year": 2024, "region": null, "metric": "sales", "aggregation": "sum", "comparison": null, "top_n": null}

Return ONLY the JSON object, no other text.`, question)
}

// ParseParameters decodes a model reply into the loose parameter record.
// Markdown code fences are stripped first — even with a strict output format
// some replies arrive wrapped.
func ParseParameters(content string) (core.ParamInput, error) {
	cleaned := stripFences(content)
	var in core.ParamInput
	if err := json.Unmarshal([]byte(cleaned), &in); err != nil {
		return core.ParamInput{}, fmt.Errorf("failed to parse extraction reply: %w", err)
	}
	return in, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 && !strings.HasPrefix(s, "{") {
		// Drop the language tag line ("json").
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
