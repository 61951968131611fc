// Package direct implements line-oriented amount extraction. Instead of the
// full tokenize/normalize/classify pipeline it matches whole bill lines
// against labeled patterns, which is more reliable on well-structured bills.
package direct

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/textproc"
)

// linePattern matches one bill line shape. Ordered most-specific first; the
// generic "total" catch-all sits last.
type linePattern struct {
	re    *regexp.Regexp
	label string
}

var linePatterns = []linePattern{
	{compile(`\b(sub\s+total|subtotal)\b.*?(\d+\.?\d*)`), "Sub Total"},
	{compile(`\b(grand\s+total|total\s+amount)\b.*?(\d+\.?\d*)`), "Grand Total"},
	{compile(`\b(final\s+amount|net\s+amount)\b.*?(\d+\.?\d*)`), "Final Amount"},
	{compile(`\b(amount\s+paid|paid\s+amount|payment)\b.*?(\d+\.?\d*)`), "Amount Paid"},
	{compile(`\b(balance|balance\s+due|outstanding|due)\b.*?(\d+\.?\d*)`), "Balance Due"},
	{compile(`\b(discount|concession|reduction)\b.*?(\d+\.?\d*)`), "Discount"},
	{compile(`\b(tax|gst|vat|service\s+tax)\b.*?(\d+\.?\d*)`), "Tax"},
	{compile(`\b(copay|co-pay|patient\s+share)\b.*?(\d+\.?\d*)`), "Co-pay"},
	{compile(`\b(deductible|excess)\b.*?(\d+\.?\d*)`), "Deductible"},
	{compile(`\b(insurance|covered|claim)\b.*?(\d+\.?\d*)`), "Insurance"},
	{compile(`\b(consultation|consult)\b.*?(\d+\.?\d*)`), "Consultation"},
	{compile(`\b(x-?ray|xray)\b.*?(\d+\.?\d*)`), "X-Ray"},
	{compile(`\b(medicine|medication|drugs?)\b.*?(\d+\.?\d*)`), "Medicine"},
	{compile(`\b(blood\s+test|blood)\b.*?(\d+\.?\d*)`), "Blood Test"},
	{compile(`\b(ultrasound|scan)\b.*?(\d+\.?\d*)`), "Scan"},
	{compile(`\b(injection|shot)\b.*?(\d+\.?\d*)`), "Injection"},
	{compile(`\b(ecg|ekg)\b.*?(\d+\.?\d*)`), "ECG"},
	{compile(`\b(mri)\b.*?(\d+\.?\d*)`), "MRI"},
	{compile(`\b(ct\s+scan|ct)\b.*?(\d+\.?\d*)`), "CT Scan"},
	{compile(`\b(total)\b.*?(\d+\.?\d*)`), "Total"},
}

var fallbackAmountRe = regexp.MustCompile(`\b(\d+\.?\d*)\b`)

func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// Service extracts labeled amounts line by line.
type Service struct {
	corrector *textproc.Corrector
	logger    *zap.Logger
}

func NewService(corrector *textproc.Corrector, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{corrector: corrector, logger: logger}
}

// Extract runs the labeled line patterns over the text. Each line contributes
// at most one item; a (label, value) pair appears at most once.
func (s *Service) Extract(text string) []domain.AmountItem {
	corrected, corrections := s.corrector.Correct(text)
	if len(corrections) > 0 {
		s.logger.Debug("applied OCR corrections", zap.Int("count", len(corrections)))
	}

	var items []domain.AmountItem
	seen := map[string]bool{}

	for lineNum, line := range strings.Split(corrected, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.ContainsAny(line, "0123456789") {
			continue
		}

		for _, lp := range linePatterns {
			m := lp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			value, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				s.logger.Warn("unparseable amount in line", zap.String("line", line))
				continue
			}

			key := fmt.Sprintf("%s|%v", lp.label, value)
			if !seen[key] {
				seen[key] = true
				items = append(items, domain.AmountItem{
					Type:   lp.label,
					Value:  value,
					Source: fmt.Sprintf("Line %d: %s", lineNum+1, line),
				})
			}
			break
		}
	}

	s.logger.Info("direct extraction completed", zap.Int("amounts", len(items)))
	return items
}

// ExtractWithFallback runs Extract and then sweeps remaining lines for any
// number not yet captured, labeling those "Other Amount".
func (s *Service) ExtractWithFallback(text string) []domain.AmountItem {
	items := s.Extract(text)

	corrected, _ := s.corrector.Correct(text)
	seenValues := map[float64]bool{}
	for _, item := range items {
		seenValues[item.Value] = true
	}

	for lineNum, line := range strings.Split(corrected, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.ContainsAny(line, "0123456789") {
			continue
		}

		for _, m := range fallbackAmountRe.FindAllStringSubmatch(line, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil || value < 1.0 || seenValues[value] {
				continue
			}
			seenValues[value] = true
			items = append(items, domain.AmountItem{
				Type:   "Other Amount",
				Value:  value,
				Source: fmt.Sprintf("Line %d: %s", lineNum+1, line),
			})
		}
	}

	return items
}
