package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
	"github.com/rbhatti-ai/exportguard-ai/internal/resilience"
	"github.com/rbhatti-ai/exportguard-ai/pkg/fxrates"
)

// Normalizer converts resolved invoice amounts to CAD. Rate lookups fail
// open: when a rate cannot be obtained for any reason the amount is used
// as-is and the conversion note says so. Normalize never returns an error.
type Normalizer struct {
	fx      fxrates.Client
	timeout time.Duration
	retry   resilience.Policy
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithRetryPolicy enables retries on transient lookup failures. The default
// is a single attempt.
func WithRetryPolicy(p resilience.Policy) NormalizerOption {
	return func(n *Normalizer) {
		n.retry = p
	}
}

// NewNormalizer creates a Normalizer. The timeout bounds each rate lookup;
// zero means 5 seconds.
func NewNormalizer(fx fxrates.Client, timeout time.Duration, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		fx:      fx,
		timeout: timeout,
		retry:   resilience.Policy{MaxAttempts: 1},
	}
	if n.timeout <= 0 {
		n.timeout = 5 * time.Second
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts amount from the given currency into CAD.
func (n *Normalizer) Normalize(ctx context.Context, resolved model.ResolvedValue) model.NormalizedValue {
	currency := resolved.SourceCurrency
	if currency == "" || strings.EqualFold(currency, "CAD") {
		return model.NormalizedValue{
			AmountCAD:      resolved.SourceAmount,
			ConversionNote: "Amount already in CAD; no conversion applied",
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	rate, err := resilience.Do(lookupCtx, n.retry, "fx_latest", func(ctx context.Context) (*fxrates.Rate, error) {
		return n.fx.Latest(ctx, currency, "CAD")
	})
	if err != nil {
		zap.L().Warn("fx lookup failed, using amount as-is",
			zap.String("currency", currency),
			zap.Float64("amount", resolved.SourceAmount),
			zap.Error(err),
		)
		return model.NormalizedValue{
			AmountCAD: resolved.SourceAmount,
			ConversionNote: fmt.Sprintf(
				"Exchange rate for %s/CAD unavailable; amount used without conversion", currency),
		}
	}

	return model.NormalizedValue{
		AmountCAD: resolved.SourceAmount * rate.Value,
		ConversionNote: fmt.Sprintf("Converted %s to CAD at %.4f (%s, %s)",
			currency, rate.Value, rate.Source, rate.Date),
	}
}
