package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"sales-agent/internal/adapters/repl"
	"sales-agent/internal/ai"
	"sales-agent/internal/app"
	"sales-agent/internal/core"
	"sales-agent/internal/ingest"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx := context.Background()

	loader, cleanup, err := buildLoader(ctx)
	if err != nil {
		log.Fatalf("data source: %v", err)
	}
	defer cleanup()

	initial, err := loader(ctx)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Warn("OPENAI_API_KEY is not set; questions will fall back to default parameters")
	}
	extractor := ai.NewOpenAIExtractor(apiKey, os.Getenv("OPENAI_MODEL"), log)

	svc := app.NewAppService(initial, loader, extractor)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "ask":
			if len(os.Args) < 3 {
				log.Fatal(`Usage: app ask "<question>"`)
			}
			res, err := svc.Ask(ctx, os.Args[2])
			if err != nil {
				log.Fatalf("ask: %v", err)
			}
			fmt.Println(res.Message)

		case "query":
			// Reads loosely typed parameters as JSON from stdin and prints the
			// raw engine result, bypassing extraction.
			var in core.ParamInput
			if err := json.NewDecoder(os.Stdin).Decode(&in); err != nil {
				log.Fatalf("invalid JSON: %v", err)
			}
			result, err := svc.Query(ctx, core.NormalizeInput(in))
			if err != nil {
				log.Fatalf("query: %v", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(result)

		case "info":
			info, err := svc.DatasetInfo(ctx)
			if err != nil {
				log.Fatalf("info: %v", err)
			}
			fmt.Printf("Rows: %d\nYears: %s\nTotal sales: %s\nBrands: %d\nStores: %d\n",
				info.Summary.TotalRows, info.Summary.YearRange,
				info.Summary.TotalSales.StringFixed(2),
				info.Summary.UniqueBrands, info.Summary.UniqueStores)

		default:
			log.Fatalf("unknown command %q (expected ask, query, or info)", os.Args[1])
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}

// buildLoader selects the dataset source from DATA_SOURCE: "csv" (default,
// reads DATA_FILE) or "postgres" (reads DATABASE_URL and SALES_TABLE).
func buildLoader(ctx context.Context) (app.Loader, func(), error) {
	source := os.Getenv("DATA_SOURCE")
	if source == "" {
		source = "csv"
	}

	switch source {
	case "csv":
		path := os.Getenv("DATA_FILE")
		if path == "" {
			path = "sales_data.csv"
		}
		loader := func(context.Context) (*core.Dataset, error) {
			return ingest.LoadCSV(path)
		}
		return loader, func() {}, nil

	case "postgres":
		pool, err := ingest.NewPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		table := os.Getenv("SALES_TABLE")
		loader := func(ctx context.Context) (*core.Dataset, error) {
			return ingest.LoadPostgres(ctx, pool, table)
		}
		return loader, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown DATA_SOURCE %q (expected csv or postgres)", source)
	}
}
