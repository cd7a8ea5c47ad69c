// Package extract turns raw invoice text into best-effort structured fields.
// Absence of a field is represented by nil/empty values, never by an error;
// extractors return an error only when they cannot run at all, and the
// pipeline degrades to an empty result in that case.
package extract

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/rbhatti-ai/exportguard-ai/internal/config"
	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

// FieldExtractor extracts structured invoice fields from document text.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (*model.ExtractionResult, error)
}

// New creates a FieldExtractor based on config. LLM-backed extractors wrap
// the heuristic parser as a fallback so extraction never depends on an
// external API being reachable.
func New(cfg config.ExtractConfig) (FieldExtractor, error) {
	timeout := WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second)
	switch cfg.Provider {
	case "heuristic", "":
		return NewHeuristic(), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, eris.New("extract: anthropic provider requires anthropic_api_key")
		}
		return NewLLM(newAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel), timeout), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, eris.New("extract: openai provider requires openai_api_key")
		}
		return NewLLM(newOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel), timeout), nil
	default:
		return nil, eris.Errorf("extract: unknown provider %q", cfg.Provider)
	}
}
