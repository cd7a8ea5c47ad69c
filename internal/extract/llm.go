package extract

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

const llmSystemPrompt = `You are an export documentation analyst. Extract fields from commercial invoice text and return ONLY a JSON object:
{"amount": <invoice total as a number, or null>, "currency": "<ISO 4217 code, or null>", "hs_code": "<HS tariff code like 8479.89.00, or null>"}
Do not guess values that are not in the text.`

// provider is a minimal LLM completion contract so extraction logic stays
// independent of the vendor SDK.
type provider interface {
	name() string
	complete(ctx context.Context, system, user string) (string, error)
}

// LLM extracts invoice fields via an LLM provider, falling back to the
// heuristic parser whenever the provider fails or returns garbage. The
// caller therefore always gets a best-effort result, never an LLM error.
type LLM struct {
	provider  provider
	heuristic *Heuristic
	timeout   time.Duration
}

// LLMOption configures an LLM extractor.
type LLMOption func(*LLM)

// WithTimeout bounds each provider call. The default is 30 seconds;
// non-positive values are ignored.
func WithTimeout(d time.Duration) LLMOption {
	return func(l *LLM) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// NewLLM creates an LLM field extractor.
func NewLLM(p provider, opts ...LLMOption) *LLM {
	l := &LLM{provider: p, heuristic: NewHeuristic(), timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type llmFields struct {
	Amount   any    `json:"amount"`
	Currency string `json:"currency"`
	HSCode   string `json:"hs_code"`
}

// Extract implements FieldExtractor.
func (l *LLM) Extract(ctx context.Context, text string) (*model.ExtractionResult, error) {
	if strings.TrimSpace(text) == "" {
		return &model.ExtractionResult{RawText: text}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, err := l.provider.complete(callCtx, llmSystemPrompt, text)
	if err != nil {
		zap.L().Warn("extract: llm provider failed, using heuristic fallback",
			zap.String("provider", l.provider.name()),
			zap.Error(err),
		)
		return l.heuristic.Extract(ctx, text)
	}

	fields, err := parseLLMFields(raw)
	if err != nil {
		zap.L().Warn("extract: llm returned unparseable fields, using heuristic fallback",
			zap.String("provider", l.provider.name()),
			zap.Error(err),
		)
		return l.heuristic.Extract(ctx, text)
	}

	result := &model.ExtractionResult{RawText: text}
	if amount, ok := llmAmount(fields.Amount); ok {
		result.ExtractedAmount = &amount
	}
	if cur := strings.ToUpper(strings.TrimSpace(fields.Currency)); len(cur) == 3 {
		result.ExtractedCurrency = cur
	}
	result.ExtractedHSCode = strings.TrimSpace(fields.HSCode)
	return result, nil
}

// parseLLMFields tolerates markdown fences and prose around the JSON object.
func parseLLMFields(raw string) (*llmFields, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, eris.New("extract: no JSON object in completion")
	}

	var fields llmFields
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// llmAmount accepts numbers or numeric strings; anything else counts as
// absent rather than an error.
func llmAmount(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, false
		}
		return t, true
	case string:
		return ParseMoney(t)
	default:
		return 0, false
	}
}
