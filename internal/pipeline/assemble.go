package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

// ErrInternal is the only user-visible assembly failure. Callers must not
// leak anything more specific when the merged facts violate an invariant.
var ErrInternal = eris.New("internal error")

// Assemble merges the stage outputs into the response record. It is a pure
// merge: finding order is preserved, nothing is recomputed except the
// CERS/POR requirement flags the report consumes. Invariant violations
// yield ErrInternal with no partial record.
func Assemble(input model.ShipmentInput, extraction *model.ExtractionResult,
	resolved model.ResolvedValue, normalized model.NormalizedValue, verdict model.Verdict) (*model.ResultRecord, error) {

	if verdict.ComplianceScore < 0 || verdict.ComplianceScore > 100 {
		return nil, ErrInternal
	}
	if resolved.SourceAmount < 0 {
		return nil, ErrInternal
	}
	for _, f := range verdict.Findings {
		if f.ScoreDelta > 0 {
			return nil, ErrInternal
		}
	}

	hsCode := ""
	if extraction != nil {
		hsCode = extraction.ExtractedHSCode
	}

	cers := CERSRequired(normalized.AmountCAD, input.Mode)

	return &model.ResultRecord{
		HSCode:          hsCode,
		ValueCAD:        normalized.AmountCAD,
		Destination:     input.Destination,
		Origin:          input.OriginCountry,
		Mode:            input.Mode,
		CERSRequired:    cers,
		PORRequired:     cers,
		ComplianceScore: verdict.ComplianceScore,
		Issues:          verdict.Findings,
		ValueSource: model.ValueSource{
			SourceAmount:   resolved.SourceAmount,
			SourceCurrency: resolved.SourceCurrency,
			Provenance:     resolved.Provenance,
			FXNote:         normalized.ConversionNote,
		},
	}, nil
}
