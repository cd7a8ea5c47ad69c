package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rbhatti-ai/exportguard-ai/internal/extract"
	"github.com/rbhatti-ai/exportguard-ai/internal/model"
	"github.com/rbhatti-ai/exportguard-ai/internal/ocr"
	"github.com/rbhatti-ai/exportguard-ai/internal/store"
)

// Pipeline runs one assessment end to end. The stages are strictly
// sequential and share no state across requests.
type Pipeline struct {
	ocr    ocr.Extractor
	fields extract.FieldExtractor
	norm   *Normalizer
	store  store.Store
}

// New creates a Pipeline. The OCR extractor may be nil when document
// uploads are not supported by the caller.
func New(ocrExtractor ocr.Extractor, fields extract.FieldExtractor, norm *Normalizer, st store.Store) *Pipeline {
	return &Pipeline{ocr: ocrExtractor, fields: fields, norm: norm, store: st}
}

// Run assesses one shipment. Document bytes are optional; extraction
// failures degrade to an empty extraction rather than failing the request.
// The only error Run returns is ErrInternal.
func (p *Pipeline) Run(ctx context.Context, input model.ShipmentInput, doc []byte) (*model.Assessment, error) {
	start := time.Now()

	extraction := p.extractFields(ctx, doc)
	resolved := Resolve(input, extraction)
	normalized := p.norm.Normalize(ctx, resolved)
	verdict := Evaluate(normalized.AmountCAD, input.Destination, input.Mode,
		input.OriginCountry != "", input.POR != "")

	record, err := assembleRecovering(input, extraction, resolved, normalized, verdict)
	if err != nil {
		zap.L().Error("assembly failed", zap.Error(err))
		return nil, ErrInternal
	}

	assessment := &model.Assessment{
		ID:        uuid.New().String(),
		Status:    model.AssessmentStatusComplete,
		Result:    *record,
		CreatedAt: time.Now().UTC(),
	}

	if p.store != nil {
		if err := p.store.SaveAssessment(ctx, assessment); err != nil {
			// Persistence is bookkeeping; the caller still gets the result.
			zap.L().Error("save assessment failed",
				zap.String("id", assessment.ID),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("assessment complete",
		zap.String("id", assessment.ID),
		zap.Int("score", record.ComplianceScore),
		zap.String("provenance", string(resolved.Provenance)),
		zap.Float64("value_cad", record.ValueCAD),
		zap.Duration("duration", time.Since(start)),
	)
	return assessment, nil
}

// extractFields turns the document into text and pulls invoice fields out
// of it. PDFs go through OCR; anything else is treated as a plain-text
// invoice and used as-is. Any failure is logged and degrades to a nil
// extraction.
func (p *Pipeline) extractFields(ctx context.Context, doc []byte) *model.ExtractionResult {
	if len(doc) == 0 {
		return nil
	}
	if p.fields == nil {
		zap.L().Warn("document supplied but extraction is not configured")
		return nil
	}

	start := time.Now()
	text := string(doc)
	if ocr.IsPDF(doc) {
		if p.ocr == nil {
			zap.L().Warn("PDF supplied but OCR is not configured")
			return nil
		}
		var err error
		text, err = p.ocr.ExtractText(ctx, doc)
		if err != nil {
			zap.L().Warn("ocr failed, continuing without extraction", zap.Error(err))
			return nil
		}
	}

	result, err := p.fields.Extract(ctx, text)
	if err != nil {
		zap.L().Warn("field extraction failed, continuing with raw text only", zap.Error(err))
		return &model.ExtractionResult{RawText: text}
	}

	zap.L().Debug("extraction complete",
		zap.Int("text_len", len(text)),
		zap.Bool("amount_found", result.ExtractedAmount != nil),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

// assembleRecovering converts an assembler panic into ErrInternal so a bad
// merge can never take down the process or leak partial data.
func assembleRecovering(input model.ShipmentInput, extraction *model.ExtractionResult,
	resolved model.ResolvedValue, normalized model.NormalizedValue, verdict model.Verdict) (record *model.ResultRecord, err error) {

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("assembler panic", zap.Any("panic", r))
			record, err = nil, ErrInternal
		}
	}()
	return Assemble(input, extraction, resolved, normalized, verdict)
}
