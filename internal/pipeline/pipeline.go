package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/classify"
	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/currency"
	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/extract"
	"github.com/harish176/plum-project/internal/normalize"
)

// Pipeline runs the four stages in order: extraction, normalization,
// classification, assembly. Each guardrail short-circuits into a terminal
// Result; a Result is assembled exactly once per run.
type Pipeline struct {
	cfg        config.PipelineConfig
	extractor  *extract.Service
	normalizer *normalize.Service
	classifier *classify.Classifier
	detector   *currency.Detector
	logger     *zap.Logger
}

func New(
	cfg config.PipelineConfig,
	extractor *extract.Service,
	normalizer *normalize.Service,
	classifier *classify.Classifier,
	detector *currency.Detector,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:        cfg,
		extractor:  extractor,
		normalizer: normalizer,
		classifier: classifier,
		detector:   detector,
		logger:     logger,
	}
}

// ProcessText runs the full pipeline over plain text input.
func (p *Pipeline) ProcessText(text string) (result domain.Result) {
	defer p.recoverToError(&result)

	p.logger.Info("starting text pipeline")
	extraction := p.extractor.FromText(text)
	return p.continueFromExtraction(extraction, text, domain.SourceText)
}

// ProcessImage runs the full pipeline over image bytes. Classification uses
// the OCR-corrected text; when that is unavailable a synthetic positional
// text is built from the raw tokens.
func (p *Pipeline) ProcessImage(ctx context.Context, image []byte) (result domain.Result) {
	defer p.recoverToError(&result)

	p.logger.Info("starting image pipeline")
	extraction := p.extractor.FromImage(ctx, image)

	text := extraction.OriginalText
	if text == "" {
		text = reconstructText(extraction.RawTokens)
	}
	return p.continueFromExtraction(extraction, text, domain.SourceImage)
}

func (p *Pipeline) continueFromExtraction(extraction domain.Extraction, text, source string) domain.Result {
	if extraction.Status != domain.ExtractionSuccess {
		return domain.Result{
			Status:     mapExtractionStatus(extraction.Status),
			Reason:     extraction.Reason,
			RawTokens:  extraction.RawTokens,
			Confidence: extraction.Confidence,
		}
	}

	if extraction.Confidence < p.cfg.ProcessingThreshold {
		return domain.Result{
			Status: domain.StatusLowConfidence,
			Reason: fmt.Sprintf("extraction confidence %.2f below threshold %.2f",
				extraction.Confidence, p.cfg.ProcessingThreshold),
			RawTokens:  extraction.RawTokens,
			Confidence: extraction.Confidence,
		}
	}

	normalized, normConf := p.normalizer.Normalize(extraction.RawTokens, extraction.Confidence)
	if len(normalized) == 0 {
		return domain.Result{
			Status:                  domain.StatusNoAmountsFound,
			Reason:                  "no valid amounts found after normalization",
			RawTokens:               extraction.RawTokens,
			Confidence:              extraction.Confidence,
			NormalizationConfidence: normConf,
		}
	}

	values := make([]float64, len(normalized))
	for i, na := range normalized {
		values[i] = na.Value
	}
	items, classConf := p.classifier.Classify(values, text, source)

	return p.assemble(extraction, items, text, normConf, classConf)
}

func (p *Pipeline) assemble(extraction domain.Extraction, items []domain.AmountItem, text string, normConf, classConf float64) domain.Result {
	// The final currency comes from a fresh detection over the full text,
	// falling back to the extraction-stage hint.
	finalCurrency, _ := p.detector.Detect(text)
	if finalCurrency == domain.CurrencyUnknown {
		finalCurrency = extraction.CurrencyHint
	}
	// UNKNOWN is an in-process value only; the serialized result omits the
	// currency field when nothing was detected.
	if finalCurrency == domain.CurrencyUnknown {
		finalCurrency = ""
	}

	overall := extraction.Confidence*0.4 + normConf*0.4 + classConf*0.2

	valid := items[:0]
	for _, item := range items {
		if item.Value >= p.cfg.MinAmountValue && item.Value <= p.cfg.MaxAmountValue {
			valid = append(valid, item)
		} else {
			p.logger.Warn("filtering out-of-bounds amount", zap.Float64("value", item.Value))
		}
	}

	if len(valid) == 0 {
		return domain.Result{
			Status:                   domain.StatusNoAmountsFound,
			Reason:                   "no valid amounts remained after final validation",
			RawTokens:                extraction.RawTokens,
			Confidence:               overall,
			NormalizationConfidence:  normConf,
			ClassificationConfidence: classConf,
		}
	}

	status := domain.StatusOK
	reason := ""
	if overall < p.cfg.ProcessingThreshold {
		status = domain.StatusLowConfidence
		reason = fmt.Sprintf("overall confidence %.2f below threshold", overall)
	}

	p.logger.Info("pipeline completed",
		zap.Int("amounts", len(valid)),
		zap.Float64("confidence", overall),
		zap.String("status", string(status)))

	return domain.Result{
		Currency:                 finalCurrency,
		Amounts:                  valid,
		Status:                   status,
		Confidence:               overall,
		RawTokens:                extraction.RawTokens,
		NormalizationConfidence:  normConf,
		ClassificationConfidence: classConf,
		Reason:                   reason,
	}
}

func (p *Pipeline) recoverToError(result *domain.Result) {
	if r := recover(); r != nil {
		p.logger.Error("pipeline panic", zap.Any("panic", r))
		*result = domain.Result{
			Status: domain.StatusError,
			Reason: fmt.Sprintf("pipeline processing error: %v", r),
		}
	}
}

func mapExtractionStatus(s domain.ExtractionStatus) domain.Status {
	switch s {
	case domain.ExtractionNoAmountsFound:
		return domain.StatusNoAmountsFound
	default:
		return domain.StatusError
	}
}

// reconstructText builds a positional stand-in text when the OCR stage could
// not supply one. The first three tokens take the conventional bill order.
func reconstructText(tokens []string) string {
	labels := []string{"Total", "Paid", "Due"}
	parts := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		label := "Amount"
		if i < len(labels) {
			label = labels[i]
		}
		parts = append(parts, label+": "+tok)
	}
	return strings.Join(parts, " | ")
}
