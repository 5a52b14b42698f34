package analysis

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is given.
const DefaultModel = "gemini-2.5-flash"

// Gemini is a Generator backed by the Gemini API. The client is created on
// first use.
type Gemini struct {
	apiKey string
	model  string

	once   sync.Once
	client *genai.Client
	err    error
}

// NewGemini returns a Gemini generator for the given API key and model.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type:        genai.TypeString,
			Description: "A one-sentence summary of the withdrawal reason.",
		},
		"category": {
			Type:        genai.TypeString,
			Description: "A suggested category for the expense.",
		},
	},
	Required: []string{"summary", "category"},
}

// Generate sends prompt to the model and returns its JSON reply.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	g.once.Do(func() {
		g.client, g.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if g.err != nil {
		return "", g.err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
