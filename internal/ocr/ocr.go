package ocr

import (
	"bytes"
	"context"

	"github.com/rotisserie/eris"

	"github.com/rbhatti-ai/exportguard-ai/internal/config"
)

// Extractor extracts text content from uploaded invoice documents.
type Extractor interface {
	ExtractText(ctx context.Context, doc []byte) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}

var pdfMagic = []byte("%PDF")

// IsPDF reports whether the document bytes look like a PDF. Non-PDF uploads
// (plain-text invoices) are passed through without OCR.
func IsPDF(doc []byte) bool {
	return bytes.HasPrefix(doc, pdfMagic)
}
