package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
	"github.com/rbhatti-ai/exportguard-ai/pkg/fxrates"
)

// fakeFX returns a canned rate or error.
type fakeFX struct {
	rate  *fxrates.Rate
	err   error
	calls int
}

func (f *fakeFX) Latest(_ context.Context, from, to string) (*fxrates.Rate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rate, nil
}

func TestNormalize_CADIdentity(t *testing.T) {
	fx := &fakeFX{err: eris.New("should not be called")}
	n := NewNormalizer(fx, time.Second)

	got := n.Normalize(context.Background(), model.ResolvedValue{SourceAmount: 2500, SourceCurrency: "CAD"})
	assert.Equal(t, 2500.0, got.AmountCAD)
	assert.Contains(t, got.ConversionNote, "no conversion")
	assert.Zero(t, fx.calls)
}

func TestNormalize_CADIdentityIsCaseInsensitive(t *testing.T) {
	fx := &fakeFX{err: eris.New("should not be called")}
	n := NewNormalizer(fx, time.Second)

	for _, currency := range []string{"cad", "Cad", "cAD"} {
		got := n.Normalize(context.Background(), model.ResolvedValue{SourceAmount: 300, SourceCurrency: currency})
		assert.Equal(t, 300.0, got.AmountCAD)
		assert.Contains(t, got.ConversionNote, "no conversion")
	}
	assert.Zero(t, fx.calls)
}

func TestNormalize_EmptyCurrencyTreatedAsCAD(t *testing.T) {
	fx := &fakeFX{err: eris.New("should not be called")}
	n := NewNormalizer(fx, time.Second)

	got := n.Normalize(context.Background(), model.ResolvedValue{SourceAmount: 100})
	assert.Equal(t, 100.0, got.AmountCAD)
	assert.Zero(t, fx.calls)
}

func TestNormalize_ConvertsForeignCurrency(t *testing.T) {
	fx := &fakeFX{rate: &fxrates.Rate{
		Value:  1.3652,
		Date:   "2026-08-28",
		Series: "FXUSDCAD",
		Source: "Bank of Canada (Valet)",
	}}
	n := NewNormalizer(fx, time.Second)

	got := n.Normalize(context.Background(), model.ResolvedValue{SourceAmount: 100, SourceCurrency: "USD"})
	assert.InDelta(t, 136.52, got.AmountCAD, 0.001)
	assert.Contains(t, got.ConversionNote, "1.3652")
	assert.Contains(t, got.ConversionNote, "Bank of Canada")
	assert.Equal(t, 1, fx.calls)
}

func TestNormalize_FailsOpenOnLookupError(t *testing.T) {
	fx := &fakeFX{err: eris.New("valet unreachable")}
	n := NewNormalizer(fx, time.Second)

	got := n.Normalize(context.Background(), model.ResolvedValue{SourceAmount: 100, SourceCurrency: "USD"})
	assert.Equal(t, 100.0, got.AmountCAD)
	assert.Contains(t, got.ConversionNote, "unavailable")
	assert.Contains(t, got.ConversionNote, "USD")
}

func TestNormalize_FailsOpenOnCancelledContext(t *testing.T) {
	fx := &fakeFX{err: context.DeadlineExceeded}
	n := NewNormalizer(fx, time.Millisecond)

	got := n.Normalize(context.Background(), model.ResolvedValue{SourceAmount: 50, SourceCurrency: "EUR"})
	assert.Equal(t, 50.0, got.AmountCAD)
	assert.Contains(t, got.ConversionNote, "unavailable")
}

func TestNormalize_SingleAttemptByDefault(t *testing.T) {
	fx := &fakeFX{err: eris.New("boom")}
	n := NewNormalizer(fx, time.Second)

	n.Normalize(context.Background(), model.ResolvedValue{SourceAmount: 100, SourceCurrency: "USD"})
	assert.Equal(t, 1, fx.calls)
}
