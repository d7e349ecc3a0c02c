package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Metric string

const (
	MetricSales        Metric = "sales"
	MetricActiveStores Metric = "active_stores"
)

type Aggregation string

const (
	AggregationSum     Aggregation = "sum"
	AggregationCount   Aggregation = "count"
	AggregationAverage Aggregation = "average"
)

type Comparison string

const (
	ComparisonNone Comparison = ""
	ComparisonYoY  Comparison = "yoy"
)

// Params is the fully typed, validated parameter set the query engine
// operates on. String filters use "" for absent; Year and TopN use nil.
// Metric and Aggregation are always one of their valid values — construction
// goes through NormalizeInput, which coerces anything else to the default.
type Params struct {
	Brand       string
	Product     string
	Month       string // raw as extracted; normalized by the filter stage
	Year        *int
	Region      string
	Metric      Metric
	Aggregation Aggregation
	Comparison  Comparison
	TopN        *int
}

// DefaultParams is the safe fallback parameter set: no filters, total sales.
func DefaultParams() Params {
	return Params{Metric: MetricSales, Aggregation: AggregationSum}
}

// ParamInput is the loosely typed parameter record arriving from the
// extraction collaborator. Year and TopN are deliberately untyped because the
// language model may return them as numbers or numeric-looking strings.
type ParamInput struct {
	Brand       string `json:"brand"`
	Product     string `json:"product"`
	Month       string `json:"month"`
	Year        any    `json:"year"`
	Region      string `json:"region"`
	Metric      string `json:"metric"`
	Aggregation string `json:"aggregation"`
	Comparison  string `json:"comparison"`
	TopN        any    `json:"top_n"`
}

// NormalizeInput coerces a loose parameter record into a valid Params.
// It never fails: invalid enum values fall back to the defaults, values that
// cannot be coerced to an integer are treated as absent, and a non-positive
// TopN is treated as absent. This runs exactly once at the extraction
// boundary so loosely typed values never reach the aggregation stages.
func NormalizeInput(in ParamInput) Params {
	p := Params{
		Brand:       strings.TrimSpace(in.Brand),
		Product:     strings.TrimSpace(in.Product),
		Month:       strings.TrimSpace(in.Month),
		Region:      strings.TrimSpace(in.Region),
		Metric:      Metric(strings.ToLower(strings.TrimSpace(in.Metric))),
		Aggregation: Aggregation(strings.ToLower(strings.TrimSpace(in.Aggregation))),
	}

	if p.Metric != MetricSales && p.Metric != MetricActiveStores {
		p.Metric = MetricSales
	}
	if p.Aggregation != AggregationSum && p.Aggregation != AggregationCount && p.Aggregation != AggregationAverage {
		p.Aggregation = AggregationSum
	}
	if strings.ToLower(strings.TrimSpace(in.Comparison)) == string(ComparisonYoY) {
		p.Comparison = ComparisonYoY
	}

	p.Year = coerceInt(in.Year)
	if n := coerceInt(in.TopN); n != nil && *n > 0 {
		p.TopN = n
	}
	return p
}

// coerceInt attempts numeric coercion of a loosely typed value.
// Coercion failure means "field absent", never an error.
func coerceInt(v any) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case int:
		return &t
	case int64:
		n := int(t)
		return &n
	case float64:
		n := int(t)
		return &n
	case json.Number:
		if f, err := t.Float64(); err == nil {
			n := int(f)
			return &n
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return &n
		}
	}
	return nil
}

// echoFilters returns the non-null parameters as a flat string map, used to
// explain "why" on a no-data result.
func echoFilters(p Params) map[string]string {
	m := map[string]string{
		"metric":      string(p.Metric),
		"aggregation": string(p.Aggregation),
	}
	if p.Brand != "" {
		m["brand"] = p.Brand
	}
	if p.Product != "" {
		m["product"] = p.Product
	}
	if p.Month != "" {
		m["month"] = p.Month
	}
	if p.Year != nil {
		m["year"] = strconv.Itoa(*p.Year)
	}
	if p.Region != "" {
		m["region"] = p.Region
	}
	if p.Comparison != ComparisonNone {
		m["comparison"] = string(p.Comparison)
	}
	if p.TopN != nil {
		m["top_n"] = strconv.Itoa(*p.TopN)
	}
	return m
}
