package model

import "time"

// ValueSource is the provenance/FX-note sub-record echoed in the response so
// downstream consumers (report renderer) can explain why a value was used.
type ValueSource struct {
	SourceAmount   float64    `json:"source_amount"`
	SourceCurrency string     `json:"source_currency"`
	Provenance     Provenance `json:"provenance"`
	FXNote         string     `json:"fx_note"`
}

// ResultRecord is the full response payload for one assessment. It is
// constructed once by the assembler and never mutated afterwards.
type ResultRecord struct {
	HSCode          string      `json:"hs_code,omitempty"`
	ValueCAD        float64     `json:"value_cad"`
	Destination     string      `json:"destination"`
	Origin          string      `json:"origin,omitempty"`
	Mode            Mode        `json:"mode"`
	CERSRequired    bool        `json:"cers_required"`
	PORRequired     bool        `json:"por_required"`
	ComplianceScore int         `json:"compliance_score"`
	Issues          []Finding   `json:"issues"`
	ValueSource     ValueSource `json:"value_source"`
}

// AssessmentStatus tracks the lifecycle of a stored assessment.
type AssessmentStatus string

const (
	AssessmentStatusComplete AssessmentStatus = "complete"
	AssessmentStatusError    AssessmentStatus = "error"
)

// Assessment is a persisted assessment: the result record plus identity and
// bookkeeping fields.
type Assessment struct {
	ID        string           `json:"id"`
	Status    AssessmentStatus `json:"status"`
	Result    ResultRecord     `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}
