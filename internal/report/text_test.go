package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

func sampleAssessment() *model.Assessment {
	return &model.Assessment{
		ID:     "a1b2c3",
		Status: model.AssessmentStatusComplete,
		Result: model.ResultRecord{
			HSCode:          "8479.89.00",
			ValueCAD:        2500,
			Destination:     "Mexico",
			Mode:            model.ModeTruck,
			CERSRequired:    true,
			PORRequired:     true,
			ComplianceScore: 72,
			Issues: []model.Finding{
				{Title: "CERS declaration required", Citation: "CBSA Memorandum D20-1-1 para 14.2", ScoreDelta: -10},
				{Title: "Proof of Report (POR#) missing", Citation: "CERS Exporters' Guide to Reporting", ScoreDelta: -8},
				{Title: "Country of origin not detected", Citation: "CBSA Memorandum D20-1-1", ScoreDelta: -10},
			},
			ValueSource: model.ValueSource{
				SourceAmount:   2500,
				SourceCurrency: "CAD",
				Provenance:     model.ProvenanceUser,
				FXNote:         "Amount already in CAD; no conversion applied",
			},
		},
		CreatedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderText_Sections(t *testing.T) {
	text := RenderText(sampleAssessment())

	assert.Contains(t, text, "EXPORT COMPLIANCE ASSESSMENT REPORT")
	assert.Contains(t, text, "REPORT DETAILS")
	assert.Contains(t, text, "SECTION 1: SHIPMENT DETAILS")
	assert.Contains(t, text, "SECTION 2: CBSA EXPORT REPORTING REQUIREMENTS")
	assert.Contains(t, text, "SECTION 3: COMPLIANCE FINDINGS")
	assert.Contains(t, text, "SECTION 4: RECOMMENDED ACTIONS")
	assert.Contains(t, text, "SECTION 5: REGULATORY REFERENCES")
	assert.Contains(t, text, "IMPORTANT DISCLAIMER")
}

func TestRenderText_Values(t *testing.T) {
	text := RenderText(sampleAssessment())

	assert.Contains(t, text, "Compliance Score: 72%")
	assert.Contains(t, text, "HS Code: 8479.89.00")
	assert.Contains(t, text, "Declared Value (CAD): $2,500.00")
	assert.Contains(t, text, "Destination Country: Mexico")
	assert.Contains(t, text, "Report Generated: 2026-08-28")
	assert.Contains(t, text, "(CERS) Declaration: REQUIRED")
	assert.Contains(t, text, "Proof-of-Report (POR#) Status: REQUIRED")
	assert.Contains(t, text, "Finding 1: CERS declaration required")
	assert.Contains(t, text, "Finding 3: Country of origin not detected")
}

func TestRenderText_RecommendedActionsConditional(t *testing.T) {
	a := sampleAssessment()
	text := RenderText(a)
	assert.Contains(t, text, "File an export declaration")
	assert.Contains(t, text, "Add the country of origin")

	a.Result.CERSRequired = false
	a.Result.PORRequired = false
	a.Result.Origin = "Canada"
	text = RenderText(a)
	assert.NotContains(t, text, "File an export declaration")
	assert.NotContains(t, text, "Add the country of origin")
	assert.Contains(t, text, "Retain all export documentation")
	assert.Contains(t, text, "(CERS) Declaration: NOT REQUIRED")
}

func TestRenderText_MissingFieldsGetPlaceholders(t *testing.T) {
	a := sampleAssessment()
	a.Result.HSCode = ""
	a.Result.Destination = ""
	a.Result.Origin = ""

	text := RenderText(a)
	assert.Contains(t, text, "HS Code: Pending")
	assert.Contains(t, text, "Destination Country: Not provided")
	assert.Contains(t, text, "Country of Origin: Not provided")
}

func TestRenderText_NoFindings(t *testing.T) {
	a := sampleAssessment()
	a.Result.Issues = nil

	text := RenderText(a)
	assert.Contains(t, text, "No compliance issues identified.")
}
