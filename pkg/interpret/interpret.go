// Package interpret turns free-text shopping queries into structured search
// filters. The capability sits behind a narrow interface so the dispatcher
// can fall back to raw keyword search whenever extraction fails.
package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

// Interpreter extracts structured filters from a natural-language query.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (types.SearchFilters, error)
}

const (
	defaultModel = "gemini-2.0-flash"

	extractionPrompt = "You are a product search assistant for an e-commerce store.\n" +
		"Extract structured search filters from this natural language query.\n" +
		"Leave fields empty when the query does not mention them.\n\n" +
		"User query: %s"
)

// GeminiInterpreter extracts filters with a structured-output Gemini call.
type GeminiInterpreter struct {
	client *genai.Client
	model  string
}

func NewGeminiInterpreter(ctx context.Context, apiKey string) (*GeminiInterpreter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiInterpreter{client: client, model: defaultModel}, nil
}

var filterSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"query":     {Type: genai.TypeString, Description: "Main product keyword or name"},
		"category":  {Type: genai.TypeString, Description: "General category like Footwear, Accessories, Watches"},
		"color":     {Type: genai.TypeString, Description: "Color name if mentioned"},
		"size":      {Type: genai.TypeString, Description: "Product size if relevant"},
		"price_min": {Type: genai.TypeNumber, Description: "Minimum price"},
		"price_max": {Type: genai.TypeNumber, Description: "Maximum price"},
	},
	Required: []string{"query"},
}

func (g *GeminiInterpreter) Interpret(ctx context.Context, query string) (types.SearchFilters, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(fmt.Sprintf(extractionPrompt, query)),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.2),
			ResponseMIMEType: "application/json",
			ResponseSchema:   filterSchema,
		})
	if err != nil {
		return types.SearchFilters{}, fmt.Errorf("interpret query: %w", err)
	}

	var filters types.SearchFilters
	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return types.SearchFilters{}, fmt.Errorf("interpret query: empty model response")
	}
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		return types.SearchFilters{}, fmt.Errorf("decode extracted filters: %w", err)
	}
	if filters.Empty() {
		filters.Query = query
	}
	return filters, nil
}
