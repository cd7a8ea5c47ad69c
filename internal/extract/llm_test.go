package extract

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbhatti-ai/exportguard-ai/internal/config"
)

// fakeProvider returns a canned completion or error.
type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) name() string { return "fake" }

func (f *fakeProvider) complete(context.Context, string, string) (string, error) {
	return f.response, f.err
}

func TestLLMExtract_Success(t *testing.T) {
	l := NewLLM(&fakeProvider{
		response: `{"amount": 8500, "currency": "usd", "hs_code": "8479.89.00"}`,
	})

	result, err := l.Extract(context.Background(), "invoice text")
	require.NoError(t, err)

	require.NotNil(t, result.ExtractedAmount)
	assert.InDelta(t, 8500, *result.ExtractedAmount, 0.001)
	assert.Equal(t, "USD", result.ExtractedCurrency)
	assert.Equal(t, "8479.89.00", result.ExtractedHSCode)
}

func TestLLMExtract_FencedResponse(t *testing.T) {
	l := NewLLM(&fakeProvider{
		response: "```json\n{\"amount\": \"1,200.50\", \"currency\": \"EUR\", \"hs_code\": null}\n```",
	})

	result, err := l.Extract(context.Background(), "invoice text")
	require.NoError(t, err)

	require.NotNil(t, result.ExtractedAmount)
	assert.InDelta(t, 1200.50, *result.ExtractedAmount, 0.001)
	assert.Equal(t, "EUR", result.ExtractedCurrency)
	assert.Empty(t, result.ExtractedHSCode)
}

func TestLLMExtract_NullFields(t *testing.T) {
	l := NewLLM(&fakeProvider{
		response: `{"amount": null, "currency": null, "hs_code": null}`,
	})

	result, err := l.Extract(context.Background(), "invoice text")
	require.NoError(t, err)

	assert.Nil(t, result.ExtractedAmount)
	assert.Empty(t, result.ExtractedCurrency)
	assert.Empty(t, result.ExtractedHSCode)
}

func TestLLMExtract_ProviderErrorFallsBack(t *testing.T) {
	l := NewLLM(&fakeProvider{err: eris.New("api unreachable")})

	result, err := l.Extract(context.Background(), "Invoice Total: $750.00 USD")
	require.NoError(t, err)

	// Heuristic fallback still finds the fields.
	require.NotNil(t, result.ExtractedAmount)
	assert.InDelta(t, 750.00, *result.ExtractedAmount, 0.001)
	assert.Equal(t, "USD", result.ExtractedCurrency)
}

func TestLLMExtract_GarbageFallsBack(t *testing.T) {
	l := NewLLM(&fakeProvider{response: "I could not find any fields, sorry!"})

	result, err := l.Extract(context.Background(), "Total: 425.00 CAD")
	require.NoError(t, err)

	require.NotNil(t, result.ExtractedAmount)
	assert.InDelta(t, 425.00, *result.ExtractedAmount, 0.001)
	assert.Equal(t, "CAD", result.ExtractedCurrency)
}

// slowProvider blocks until its context is done.
type slowProvider struct{}

func (slowProvider) name() string { return "slow" }

func (slowProvider) complete(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestLLMExtract_TimeoutFallsBack(t *testing.T) {
	l := NewLLM(slowProvider{}, WithTimeout(20*time.Millisecond))

	start := time.Now()
	result, err := l.Extract(context.Background(), "Invoice Total: $750.00 USD")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	require.NotNil(t, result.ExtractedAmount)
	assert.InDelta(t, 750.00, *result.ExtractedAmount, 0.001)
}

func TestLLMExtract_EmptyText(t *testing.T) {
	l := NewLLM(&fakeProvider{response: `{"amount": 100}`})

	result, err := l.Extract(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, result.ExtractedAmount)
}

func TestNewFactory(t *testing.T) {
	e, err := New(config.ExtractConfig{Provider: "heuristic"})
	require.NoError(t, err)
	assert.IsType(t, &Heuristic{}, e)

	e, err = New(config.ExtractConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Heuristic{}, e)

	e, err = New(config.ExtractConfig{Provider: "anthropic", AnthropicKey: "sk-ant"})
	require.NoError(t, err)
	assert.IsType(t, &LLM{}, e)

	e, err = New(config.ExtractConfig{Provider: "openai", OpenAIKey: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &LLM{}, e)

	_, err = New(config.ExtractConfig{Provider: "anthropic"})
	assert.Error(t, err)

	_, err = New(config.ExtractConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = New(config.ExtractConfig{Provider: "gemini"})
	assert.Error(t, err)
}
