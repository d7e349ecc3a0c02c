package app

import (
	"sales-agent/internal/core"
	"sales-agent/internal/ingest"
	"sales-agent/internal/viz"
)

// AskResult is returned by Ask.
type AskResult struct {
	Question string
	Params   core.Params
	Result   *core.QueryResult
	Message  string
	Chart    *viz.ChartConfig // nil unless the result carries a chart hint
}

// DatasetInfoResult is returned by DatasetInfo.
type DatasetInfoResult struct {
	Summary ingest.Summary
	Caps    core.Capabilities
}

// ExampleCategory groups canned example questions for display.
type ExampleCategory struct {
	Category string
	Queries  []string
}
