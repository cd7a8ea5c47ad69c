package pipeline

import (
	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

// CERSThresholdCAD is the declared value at or above which a CERS export
// declaration is required regardless of transport mode.
const CERSThresholdCAD = 2000

// CERSRequired reports whether the shipment needs a CERS declaration:
// value at or above the threshold, or export by Air or Rail.
func CERSRequired(valueCAD float64, mode model.Mode) bool {
	return valueCAD >= CERSThresholdCAD || mode == model.ModeAir || mode == model.ModeRail
}

// Evaluate runs the fixed rule set against the normalized shipment facts.
// Rules always run in the same order and the findings keep that order, so
// the same facts always produce the same verdict.
func Evaluate(valueCAD float64, destination string, mode model.Mode, originPresent, porPresent bool) model.Verdict {
	findings := make([]model.Finding, 0, 3)

	// Rule 1: CERS applicability.
	if CERSRequired(valueCAD, mode) {
		findings = append(findings, model.Finding{
			Title:      "CERS declaration required",
			Citation:   "CBSA Memorandum D20-1-1 para 14.2",
			ScoreDelta: -10,
		})
	} else {
		findings = append(findings, model.Finding{
			Title:      "CERS declaration not required",
			Citation:   "CBSA Memorandum D20-1-1 para 14.2",
			ScoreDelta: 0,
		})
	}

	// Rule 2: Proof of Report presence.
	if porPresent {
		findings = append(findings, model.Finding{
			Title:      "Proof of Report (POR#) on file",
			Citation:   "CERS Exporters' Guide to Reporting",
			ScoreDelta: 0,
		})
	} else {
		findings = append(findings, model.Finding{
			Title:      "Proof of Report (POR#) missing",
			Citation:   "CERS Exporters' Guide to Reporting",
			ScoreDelta: -8,
		})
	}

	// Rule 3: Country of origin presence. No finding when declared.
	if !originPresent {
		findings = append(findings, model.Finding{
			Title:      "Country of origin not detected",
			Citation:   "CBSA Memorandum D20-1-1",
			ScoreDelta: -10,
		})
	}

	return model.Verdict{
		ComplianceScore: model.ScoreFromFindings(findings),
		Findings:        findings,
	}
}
