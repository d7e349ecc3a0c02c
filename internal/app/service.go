package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"sales-agent/internal/ai"
	"sales-agent/internal/core"
	"sales-agent/internal/ingest"
	"sales-agent/internal/viz"
)

// Loader produces a fresh dataset snapshot. A reload replaces the snapshot
// wholesale; the previous snapshot stays valid for queries already holding it.
type Loader func(ctx context.Context) (*core.Dataset, error)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web)
// call. It decouples presentation from the query engine. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Ask answers a natural-language question: extracts parameters, runs the
	// query engine, and builds the display message and optional chart.
	Ask(ctx context.Context, question string) (*AskResult, error)

	// Query runs the deterministic engine against already-typed parameters,
	// bypassing extraction.
	Query(ctx context.Context, params core.Params) (*core.QueryResult, error)

	// DatasetInfo returns a summary of the loaded snapshot.
	DatasetInfo(ctx context.Context) (*DatasetInfoResult, error)

	// Reload replaces the dataset snapshot from the configured source.
	Reload(ctx context.Context) error

	// ExampleQueries returns canned questions grouped by category.
	ExampleQueries() []ExampleCategory
}

type appService struct {
	data      atomic.Pointer[core.Dataset]
	loader    Loader
	extractor ai.Extractor
}

// NewAppService constructs an appService over an initial snapshot.
func NewAppService(initial *core.Dataset, loader Loader, extractor ai.Extractor) ApplicationService {
	s := &appService{loader: loader, extractor: extractor}
	s.data.Store(initial)
	return s
}

func (s *appService) Ask(ctx context.Context, question string) (*AskResult, error) {
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	params := s.extractor.Extract(ctx, question)
	result := core.Query(s.data.Load(), params)

	return &AskResult{
		Question: question,
		Params:   params,
		Result:   result,
		Message:  core.FormatMessage(result, params),
		Chart:    viz.Build(result, params),
	}, nil
}

func (s *appService) Query(_ context.Context, params core.Params) (*core.QueryResult, error) {
	return core.Query(s.data.Load(), params), nil
}

func (s *appService) DatasetInfo(_ context.Context) (*DatasetInfoResult, error) {
	ds := s.data.Load()
	return &DatasetInfoResult{Summary: ingest.Summarize(ds), Caps: ds.Caps}, nil
}

func (s *appService) Reload(ctx context.Context) error {
	if s.loader == nil {
		return fmt.Errorf("no data source configured for reload")
	}
	ds, err := s.loader(ctx)
	if err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	s.data.Store(ds)
	return nil
}
