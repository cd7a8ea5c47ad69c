package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoice = `COMMERCIAL INVOICE #2041
Maple Industrial Supply Ltd.

Item                    HS Code       Qty    Unit     Amount
Conveyor assembly       8479.89.00    2      1,100.00 2,200.00
Freight                                               300.00

Invoice Total: $2,500.00 CAD
Ship To: Monterrey, Mexico
`

func TestHeuristicExtract(t *testing.T) {
	h := NewHeuristic()
	result, err := h.Extract(context.Background(), sampleInvoice)
	require.NoError(t, err)

	require.NotNil(t, result.ExtractedAmount)
	assert.InDelta(t, 2500.00, *result.ExtractedAmount, 0.001)
	assert.Equal(t, "CAD", result.ExtractedCurrency)
	assert.Equal(t, "8479.89.00", result.ExtractedHSCode)
	assert.Equal(t, sampleInvoice, result.RawText)
}

func TestHeuristicExtract_NoTotalLine(t *testing.T) {
	text := "Widgets 150.00\nGadgets 980.50\nShipping 20.00"

	h := NewHeuristic()
	result, err := h.Extract(context.Background(), text)
	require.NoError(t, err)

	// Falls back to the largest amount in the document.
	require.NotNil(t, result.ExtractedAmount)
	assert.InDelta(t, 980.50, *result.ExtractedAmount, 0.001)
	assert.Empty(t, result.ExtractedCurrency)
	assert.Empty(t, result.ExtractedHSCode)
}

func TestHeuristicExtract_Empty(t *testing.T) {
	h := NewHeuristic()
	result, err := h.Extract(context.Background(), "   ")
	require.NoError(t, err)

	assert.Nil(t, result.ExtractedAmount)
	assert.Empty(t, result.ExtractedCurrency)
	assert.Empty(t, result.ExtractedHSCode)
}

func TestFindCurrency_Symbols(t *testing.T) {
	assert.Equal(t, "CAD", findCurrency("Total C$100"))
	assert.Equal(t, "USD", findCurrency("Total US$100"))
	assert.Equal(t, "EUR", findCurrency("Total €100"))
	assert.Equal(t, "GBP", findCurrency("Total £100"))
	assert.Equal(t, "", findCurrency("Total 100"))
	// Explicit code wins over a symbol.
	assert.Equal(t, "USD", findCurrency("Total €100 USD"))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2500", 2500, true},
		{"2,500.00", 2500, true},
		{"$1,234.56", 1234.56, true},
		{"C$ 99.95", 99.95, true},
		{"0", 0, true},
		{"-10", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"12.34.56", 0, false},
	}
	for _, tt := range tests {
		v, ok := ParseMoney(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, v, 0.001, "input %q", tt.in)
		}
	}
}
