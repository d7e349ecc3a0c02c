package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	webAdapter "sales-agent/internal/adapters/web"
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
	log.SetFormatter(&logrus.JSONFormatter{})

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

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, log)

	log.Infof("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
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
