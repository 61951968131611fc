package currency

import (
	"regexp"
	"strings"

	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/domain"
)

// Detector scores currency symbol/keyword patterns over a text to pick the
// most likely currency. The pattern table is an ordered slice so tie-breaks
// are deterministic: earlier entries win.
type Detector struct {
	entries []entry
}

type entry struct {
	currency domain.Currency
	patterns []*regexp.Regexp
}

// NewDetector compiles the configured currency pattern table.
func NewDetector(table []config.CurrencyPatterns) *Detector {
	d := &Detector{}
	for _, cp := range table {
		e := entry{currency: domain.Currency(strings.ToUpper(cp.Currency))}
		for _, p := range cp.Patterns {
			e.patterns = append(e.patterns, regexp.MustCompile(`(?i)`+p))
		}
		d.entries = append(d.entries, e)
	}
	return d
}

// Detect returns the winning currency and a confidence in [0,1]. Each pattern
// contributes 0.3 per match plus a positional bonus of up to 0.2 for its first
// match (earlier is better). No match at all yields UNKNOWN with 0.0.
func (d *Detector) Detect(text string) (domain.Currency, float64) {
	if len(text) == 0 {
		return domain.CurrencyUnknown, 0.0
	}

	best := domain.CurrencyUnknown
	bestScore := 0.0

	for _, e := range d.entries {
		score := 0.0
		for _, re := range e.patterns {
			matches := re.FindAllStringIndex(text, -1)
			if len(matches) == 0 {
				continue
			}
			score += float64(len(matches)) * 0.3
			first := float64(matches[0][0])
			bonus := 1.0 - first/float64(len(text))
			if bonus < 0 {
				bonus = 0
			}
			score += bonus * 0.2
		}
		if score > bestScore {
			bestScore = score
			best = e.currency
		}
	}

	if best == domain.CurrencyUnknown {
		return domain.CurrencyUnknown, 0.0
	}
	if bestScore > 1.0 {
		bestScore = 1.0
	}
	return best, bestScore
}
