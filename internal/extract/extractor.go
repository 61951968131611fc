package extract

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/currency"
	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/port"
	"github.com/harish176/plum-project/internal/textproc"
)

// imageSignatures are the magic bytes of the supported image formats.
var imageSignatures = [][]byte{
	{0xff, 0xd8, 0xff}, // JPEG
	{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, // PNG
	{'B', 'M'},            // BMP
	{'I', 'I', '*', 0x00}, // TIFF little-endian
	{'M', 'M', 0x00, '*'}, // TIFF big-endian
}

const minImageBytes = 100

// Service runs the extraction stage: cleaned text in, raw amount tokens and a
// currency hint out. The image path delegates to the ImageOCR collaborator
// first.
type Service struct {
	cfg       config.PipelineConfig
	tokenizer *textproc.Tokenizer
	corrector *textproc.Corrector
	amounts   textproc.AmountExtractor
	detector  *currency.Detector
	imageOCR  port.ImageOCR
	logger    *zap.Logger
}

// NewService builds an extraction Service. imageOCR may be nil when only the
// text path is used.
func NewService(
	cfg config.PipelineConfig,
	tokenizer *textproc.Tokenizer,
	corrector *textproc.Corrector,
	detector *currency.Detector,
	imageOCR port.ImageOCR,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		tokenizer: tokenizer,
		corrector: corrector,
		amounts:   textproc.AmountExtractor{MaxValue: cfg.MaxAmountValue},
		detector:  detector,
		imageOCR:  imageOCR,
		logger:    logger,
	}
}

// FromText extracts raw amount tokens from plain text.
func (s *Service) FromText(text string) domain.Extraction {
	if err := s.validateText(text); err != nil {
		return domain.Extraction{Status: domain.ExtractionError, Reason: err.Error()}
	}

	cleaned := textproc.Clean(text)
	tokens := s.tokenizer.ExtractTokens(cleaned)
	if len(tokens) == 0 {
		return domain.Extraction{
			Status: domain.ExtractionNoAmountsFound,
			Reason: "no numeric tokens found in text",
		}
	}

	var raw []string
	for _, tok := range tokens {
		for _, v := range s.amounts.Extract(tok.Text) {
			raw = append(raw, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	raw = dedupeStrings(raw)
	if len(raw) == 0 {
		return domain.Extraction{
			Status: domain.ExtractionNoAmountsFound,
			Reason: "no valid amounts found in numeric tokens",
		}
	}

	curr, currConf := s.detector.Detect(cleaned)
	hint := domain.CurrencyUnknown
	if curr != domain.CurrencyUnknown {
		hint = curr
	}

	// Confidence grows with the number of distinct tokens found, averaged
	// with the currency detection score.
	tokenConf := float64(len(raw))*0.2 + 0.4
	if tokenConf > 1.0 {
		tokenConf = 1.0
	}
	conf := (tokenConf + currConf) / 2

	s.logger.Debug("text extraction complete",
		zap.Int("tokens", len(raw)), zap.Float64("confidence", conf))

	return domain.Extraction{
		RawTokens:    raw,
		CurrencyHint: hint,
		Confidence:   conf,
		Status:       domain.ExtractionSuccess,
	}
}

// FromImage runs OCR on image bytes, applies OCR corrections, and continues
// through the text path. The OCR engine's confidence is blended 50/50 with the
// text extraction confidence.
func (s *Service) FromImage(ctx context.Context, image []byte) domain.Extraction {
	if err := ValidateImage(image, s.cfg.MaxImageBytes); err != nil {
		return domain.Extraction{Status: domain.ExtractionError, Reason: err.Error()}
	}

	text, ocrConf, err := s.imageOCR.Recognize(ctx, image)
	if err != nil {
		s.logger.Warn("image recognition failed", zap.Error(err))
		return domain.Extraction{
			Status: domain.ExtractionError,
			Reason: "image processing error: " + err.Error(),
		}
	}
	if strings.TrimSpace(text) == "" {
		return domain.Extraction{
			Status: domain.ExtractionNoAmountsFound,
			Reason: "no text detected in image",
		}
	}

	corrected, corrections := s.corrector.Correct(text)
	if len(corrections) > 0 {
		s.logger.Debug("applied OCR corrections", zap.Strings("corrections", corrections))
	}

	res := s.FromText(corrected)
	if res.Status == domain.ExtractionSuccess {
		res.Confidence = (ocrConf + res.Confidence) / 2
		res.OriginalText = corrected
	}
	return res
}

func (s *Service) validateText(text string) error {
	if text == "" {
		return domain.ErrEmptyText
	}
	if strings.TrimSpace(text) == "" {
		return domain.ErrWhitespaceText
	}
	if s.cfg.MaxTextLength > 0 && len(text) > s.cfg.MaxTextLength {
		return domain.ErrTextTooLong
	}
	return nil
}

// ValidateImage checks size bounds and the magic bytes of the supported
// formats. maxBytes <= 0 disables the upper bound.
func ValidateImage(image []byte, maxBytes int64) error {
	if len(image) == 0 {
		return domain.ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(image)) > maxBytes {
		return domain.ErrImageTooLarge
	}
	if len(image) < minImageBytes {
		return domain.ErrImageTooSmall
	}
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(image, sig) {
			return nil
		}
	}
	return domain.ErrUnsupportedImage
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	unique := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique
}
