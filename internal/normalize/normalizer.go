package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/textproc"
)

// fallbackPatterns are tried in order against tokens that resist direct and
// corrected parsing. Earlier patterns are more specific.
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.\d{1,2}`),
	regexp.MustCompile(`\d{1,3}(?:,\d{3})+`),
	regexp.MustCompile(`\d+`),
}

// Service turns raw amount tokens into validated numeric amounts. Each token
// is tried against a cascade of strategies with decreasing confidence; tokens
// that survive none of them are dropped.
type Service struct {
	cfg       config.PipelineConfig
	corrector *textproc.Corrector
	amounts   textproc.AmountExtractor
	logger    *zap.Logger
}

func NewService(cfg config.PipelineConfig, corrector *textproc.Corrector, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		corrector: corrector,
		amounts:   textproc.AmountExtractor{MaxValue: cfg.MaxAmountValue},
		logger:    logger,
	}
}

// Normalize converts raw tokens into normalized amounts and an overall
// confidence. The confidence averages the per-token strategy scores and blends
// the result equally with the upstream OCR confidence; with no surviving
// tokens it is 0.
func (s *Service) Normalize(rawTokens []string, ocrConfidence float64) ([]domain.NormalizedAmount, float64) {
	if len(rawTokens) == 0 {
		return nil, 0.0
	}

	var normalized []domain.NormalizedAmount
	for _, token := range rawTokens {
		na, ok := s.normalizeToken(token)
		if !ok {
			s.logger.Warn("failed to normalize token", zap.String("token", token))
			continue
		}
		normalized = append(normalized, na)
	}

	if len(normalized) == 0 {
		return nil, 0.0
	}

	var sum float64
	for _, na := range normalized {
		sum += na.Confidence
	}
	overall := (sum/float64(len(normalized)) + ocrConfidence) / 2

	s.logger.Debug("normalization complete",
		zap.Int("amounts", len(normalized)), zap.Float64("confidence", overall))

	return normalized, overall
}

func (s *Service) normalizeToken(token string) (domain.NormalizedAmount, bool) {
	// Strategy 1: the token already is a number.
	if v, err := strconv.ParseFloat(token, 64); err == nil {
		if s.validValue(v) {
			return domain.NormalizedAmount{Value: v, Confidence: 0.9}, true
		}
		s.logger.Warn("amount out of bounds", zap.Float64("value", v))
		return domain.NormalizedAmount{}, false
	}

	// Strategy 2: repair confusable characters, then re-extract. Confidence
	// drops with every correction that was needed.
	corrected, corrections := s.corrector.CorrectRun(token)
	if vals := s.amounts.Extract(corrected); len(vals) > 0 && s.validValue(vals[0]) {
		conf := 0.7 - float64(len(corrections))*0.1
		if conf < 0.1 {
			conf = 0.1
		}
		return domain.NormalizedAmount{
			Value:       vals[0],
			Confidence:  conf,
			Corrections: corrections,
		}, true
	}

	// Strategy 3: keep only digits and the decimal point.
	var b strings.Builder
	for _, r := range token {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	if digits := b.String(); digits != "" && digits != "." {
		if v, err := strconv.ParseFloat(digits, 64); err == nil && s.validValue(v) {
			return domain.NormalizedAmount{Value: v, Confidence: 0.5}, true
		}
	}

	// Strategy 4: scan for any numeric substring.
	for _, re := range fallbackPatterns {
		for _, m := range re.FindAllString(token, -1) {
			v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
			if err != nil || !s.validValue(v) {
				continue
			}
			return domain.NormalizedAmount{Value: v, Confidence: 0.4}, true
		}
	}

	return domain.NormalizedAmount{}, false
}

func (s *Service) validValue(v float64) bool {
	return v >= s.cfg.MinAmountValue && v <= s.cfg.MaxAmountValue
}

// Relationships groups amounts by the arithmetic roles they could play on a
// bill. Diagnostic only; classification does not depend on it.
type Relationships struct {
	PotentialTotals      []float64
	PotentialParts       []float64
	PotentialPercentages []float64
}

// DetectRelationships checks whether the largest amount equals the sum of the
// others and flags small values that could be percentages.
func DetectRelationships(amounts []float64) Relationships {
	var rel Relationships
	if len(amounts) < 2 {
		return rel
	}

	sorted := append([]float64(nil), amounts...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	largest, others := sorted[0], sorted[1:]
	var sum float64
	for _, v := range others {
		sum += v
	}
	if diff := largest - sum; diff < 0.01 && diff > -0.01 {
		rel.PotentialTotals = append(rel.PotentialTotals, largest)
		rel.PotentialParts = append(rel.PotentialParts, others...)
	}

	for _, v := range amounts {
		if v > 0 && v < 100 {
			rel.PotentialPercentages = append(rel.PotentialPercentages, v)
		}
	}
	return rel
}
