package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/sirupsen/logrus"

	"sales-agent/internal/core"
)

// Extractor turns a natural-language question into a validated parameter set.
// It never fails: any transport or parse problem ends, after bounded retries,
// in the safe default parameter set. The query engine depends only on this
// interface, never on the retry mechanics behind it.
type Extractor interface {
	Extract(ctx context.Context, question string) core.Params
}

const maxAttempts = 3

// OpenAIExtractor is the production Extractor backed by the OpenAI Responses
// API with a strict JSON-schema output format.
type OpenAIExtractor struct {
	client *openai.Client
	model  shared.ResponsesModel
	log    *logrus.Logger
}

func NewOpenAIExtractor(apiKey, model string, log *logrus.Logger) *OpenAIExtractor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	m := shared.ResponsesModel(shared.ChatModelGPT4o)
	if model != "" {
		m = shared.ResponsesModel(model)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OpenAIExtractor{client: &client, model: m, log: log}
}

// Extract runs up to maxAttempts extraction calls with exponential backoff
// between attempts. Exhaustion or an aborted context returns DefaultParams —
// extraction failure never surfaces as an error to the caller.
func (e *OpenAIExtractor) Extract(ctx context.Context, question string) core.Params {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		in, err := e.extractOnce(ctx, question)
		if err == nil {
			return core.NormalizeInput(in)
		}

		e.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("parameter extraction attempt failed")

		if attempt == maxAttempts {
			break
		}
		backoff := time.Duration(1<<(attempt-1)) * time.Second
		select {
		case <-ctx.Done():
			e.log.WithField("reason", ctx.Err().Error()).Warn("parameter extraction aborted, using defaults")
			return core.DefaultParams()
		case <-time.After(backoff):
		}
	}

	e.log.WithField("question", question).Warn("parameter extraction exhausted retries, using defaults")
	return core.DefaultParams()
}

func (e *OpenAIExtractor) extractOnce(ctx context.Context, question string) (core.ParamInput, error) {
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return core.ParamInput{}, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return core.ParamInput{}, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: e.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(buildPrompt(question)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "sales_query_parameters",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Structured query parameters extracted from a sales data question"),
				},
			},
		},
	}

	resp, err := e.client.Responses.New(ctx, params)
	if err != nil {
		return core.ParamInput{}, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return core.ParamInput{}, fmt.Errorf("empty response content")
	}

	return ParseParameters(content)
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v parameterPayload
	return reflector.Reflect(v)
}

// parameterPayload documents the extraction contract to the model. The reply
// is decoded into the looser core.ParamInput so a model that returns a
// numeric-looking string where a number belongs still coerces cleanly.
type parameterPayload struct {
	Brand       *string `json:"brand" jsonschema_description:"Brand name mentioned in the question, or null"`
	Product     *string `json:"product" jsonschema_description:"Product or category name (e.g. 'Biscuits', 'Cheese'), or null"`
	Month       *string `json:"month" jsonschema_description:"Month name in any spelling (e.g. 'January', 'JAN', 'Feb'), or null"`
	Year        *int    `json:"year" jsonschema_description:"Four-digit year, or null"`
	Region      *string `json:"region" jsonschema_description:"Region, area or city name, or null"`
	Metric      string  `json:"metric" jsonschema_description:"'sales' or 'active_stores'; default 'sales'"`
	Aggregation string  `json:"aggregation" jsonschema_description:"'sum', 'count' or 'average'; default 'sum'"`
	Comparison  *string `json:"comparison" jsonschema_description:"'yoy' for year-over-year questions, else null"`
	TopN        *int    `json:"top_n" jsonschema_description:"N for 'top N' ranking questions, else null"`
}
