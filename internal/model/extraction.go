package model

// ExtractionResult is the best-effort output of the document extraction
// adapter. Nil fields mean "not found in the document", never an error:
// the adapter signals total failure by returning an error from Extract,
// and the pipeline degrades to an empty result in that case.
type ExtractionResult struct {
	RawText           string   `json:"raw_text"`
	ExtractedAmount   *float64 `json:"extracted_amount,omitempty"`
	ExtractedCurrency string   `json:"extracted_currency,omitempty"`
	ExtractedHSCode   string   `json:"extracted_hs_code,omitempty"`
}
