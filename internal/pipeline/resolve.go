// Package pipeline implements the invoice assessment flow: resolve the
// invoice value, normalize it to CAD, evaluate the reporting rules, and
// assemble the result.
package pipeline

import (
	"strings"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

// Resolve picks the invoice value to assess. Precedence is strict: a typed
// amount wins, then an extracted amount, then a zero default. Absent or
// malformed values fall through; Resolve never fails.
func Resolve(input model.ShipmentInput, extraction *model.ExtractionResult) model.ResolvedValue {
	if input.TypedAmount != nil && *input.TypedAmount >= 0 {
		currency := normalizeCurrency(input.TypedCurrency)
		if currency == "" {
			currency = "CAD"
		}
		return model.ResolvedValue{
			SourceAmount:   *input.TypedAmount,
			SourceCurrency: currency,
			Provenance:     model.ProvenanceUser,
		}
	}

	if extraction != nil && extraction.ExtractedAmount != nil && *extraction.ExtractedAmount >= 0 {
		currency := normalizeCurrency(extraction.ExtractedCurrency)
		if currency == "" {
			// Extracted invoices without an explicit currency are assumed USD.
			currency = "USD"
		}
		return model.ResolvedValue{
			SourceAmount:   *extraction.ExtractedAmount,
			SourceCurrency: currency,
			Provenance:     model.ProvenanceExtracted,
		}
	}

	return model.ResolvedValue{
		SourceAmount:   0,
		SourceCurrency: "CAD",
		Provenance:     model.ProvenanceDefaulted,
	}
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return ""
	}
	return code
}
