package model

// Provenance records which input satisfied the value precedence rule.
type Provenance string

const (
	// ProvenanceUser means the user-typed amount won.
	ProvenanceUser Provenance = "user"
	// ProvenanceExtracted means the document-extracted amount won.
	ProvenanceExtracted Provenance = "extracted"
	// ProvenanceDefaulted means no usable amount was found anywhere.
	ProvenanceDefaulted Provenance = "defaulted"
)

// ResolvedValue is the authoritative (amount, currency) pair chosen by the
// value resolver. SourceAmount is always >= 0.
type ResolvedValue struct {
	SourceAmount   float64    `json:"source_amount"`
	SourceCurrency string     `json:"source_currency"`
	Provenance     Provenance `json:"provenance"`
}

// NormalizedValue is the canonical-currency amount produced by the currency
// normalizer. AmountCAD is always >= 0 and always present: on any rate
// lookup failure the normalizer fails open and uses the source amount as-is,
// recording why in ConversionNote.
type NormalizedValue struct {
	AmountCAD      float64 `json:"amount_cad"`
	ConversionNote string  `json:"conversion_note"`
}
