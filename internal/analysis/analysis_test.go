package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestAnalyze_Disabled(t *testing.T) {
	a := New(nil)
	assert.False(t, a.Enabled())
	assert.Equal(t, Disabled, a.Analyze(context.Background(), "buy shovels"))
}

func TestAnalyze_Success(t *testing.T) {
	gen := &stubGenerator{reply: `{"summary":"Buy garden tools.","category":"Supplies"}`}
	a := New(gen)
	require.True(t, a.Enabled())

	got := a.Analyze(context.Background(), "Purchase of new shovels and gloves")
	assert.Equal(t, Analysis{Summary: "Buy garden tools.", Category: "Supplies"}, got)
	assert.Contains(t, gen.prompt, `"Purchase of new shovels and gloves"`)
	assert.Contains(t, gen.prompt, "'Food & Beverage'")
}

func TestAnalyze_FencedReply(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n{\"summary\":\"Pay rent.\",\"category\":\"Rent\"}\n```"}
	got := New(gen).Analyze(context.Background(), "rent for the hall")
	assert.Equal(t, "Rent", got.Category)
}

func TestAnalyze_FallbackCases(t *testing.T) {
	tests := []struct {
		name   string
		gen    *stubGenerator
		reason string
	}{
		{"transport error", &stubGenerator{err: errors.New("connection refused")}, "x"},
		{"not json", &stubGenerator{reply: "I think it is supplies"}, "x"},
		{"missing category", &stubGenerator{reply: `{"summary":"ok"}`}, "x"},
		{"blank summary", &stubGenerator{reply: `{"summary":" ","category":"Travel"}`}, "x"},
		{"empty reason", &stubGenerator{reply: `{"summary":"a","category":"b"}`}, "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Fallback, New(tt.gen).Analyze(context.Background(), tt.reason))
		})
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	a := New(slowGenerator{}).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	got := a.Analyze(context.Background(), "anything")
	assert.Equal(t, Fallback, got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewGeminiDefaultsModel(t *testing.T) {
	assert.Equal(t, DefaultModel, NewGemini("key", "").model)
	assert.Equal(t, "other", NewGemini("key", "other").model)
}
