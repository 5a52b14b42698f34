// Package analysis suggests a summary and category for a withdrawal reason.
//
// Results are suggestions only. Analyze never returns an error: when the
// backend is missing or fails, a fixed placeholder is returned instead so
// that proposal submission never waits on it.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Analysis is the suggested summary and category for a reason.
type Analysis struct {
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// Categories offered to the model.
var Categories = []string{
	"Supplies",
	"Event Costs",
	"Utilities",
	"Services",
	"Rent",
	"Food & Beverage",
	"Travel",
	"Miscellaneous",
}

var (
	// Disabled is returned when no backend is configured.
	Disabled = Analysis{
		Summary:  "AI analysis is disabled. This is a mock summary.",
		Category: "Mock Category",
	}
	// Fallback is returned when the backend fails or replies with garbage.
	Fallback = Analysis{
		Summary:  "Could not analyze reason. Please summarize manually.",
		Category: "Miscellaneous",
	}
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 15 * time.Second

// Generator produces a JSON reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyzer wraps a Generator with the prompt, parsing and fallback rules.
type Analyzer struct {
	gen     Generator
	timeout time.Duration
}

// New returns an Analyzer backed by gen. A nil gen yields Disabled for
// every call.
func New(gen Generator) *Analyzer {
	return &Analyzer{gen: gen, timeout: DefaultTimeout}
}

// WithTimeout returns a copy of a using the given per-call timeout.
func (a *Analyzer) WithTimeout(d time.Duration) *Analyzer {
	cp := *a
	cp.timeout = d
	return &cp
}

// Enabled reports whether a backend is configured.
func (a *Analyzer) Enabled() bool {
	return a.gen != nil
}

// Analyze asks the backend to summarise and categorise reason.
func (a *Analyzer) Analyze(ctx context.Context, reason string) Analysis {
	if a.gen == nil {
		log.Printf("analysis: no API key configured, returning mock data")
		return Disabled
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Fallback
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.Generate(ctx, Prompt(reason))
	if err != nil {
		log.Printf("analysis: generate failed: %v", err)
		return Fallback
	}
	result, err := parse(text)
	if err != nil {
		log.Printf("analysis: %v", err)
		return Fallback
	}
	return result
}

// Prompt builds the instruction sent to the model for reason.
func Prompt(reason string) string {
	quoted := make([]string, len(Categories))
	for i, c := range Categories {
		quoted[i] = "'" + c + "'"
	}
	return fmt.Sprintf("Analyze the following withdrawal request for a community fund. "+
		"Summarize it concisely in one sentence and suggest a category from this list: %s.\n\n"+
		"Request: %q\n\n"+
		"Return the result as a clean JSON object.",
		strings.Join(quoted, ", "), reason)
}

func parse(text string) (Analysis, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var out Analysis
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return Analysis{}, fmt.Errorf("parse reply: %w", err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	out.Category = strings.TrimSpace(out.Category)
	if out.Summary == "" || out.Category == "" {
		return Analysis{}, errors.New("parse reply: summary and category are required")
	}
	return out, nil
}
