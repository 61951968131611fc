package textproc

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyMarkerRe = regexp.MustCompile(`(?i)(Rs\.?|₹|\$|€|£)`)

	// Symbol-then-number and number-then-symbol forms; the number group
	// differs between the two.
	currencyAmountRes = []struct {
		re       *regexp.Regexp
		numGroup int
	}{
		{regexp.MustCompile(`(?i)(Rs\.?|₹|\$|€|£)\s*(\d{1,6}(?:\.\d{1,2})?)`), 2},
		{regexp.MustCompile(`(?i)(\d{1,6}(?:\.\d{1,2})?)\s*(Rs\.?|₹|\$|€|£)`), 1},
	}

	percentAmountRe = regexp.MustCompile(`(\d{1,3}(?:\.\d{1,2})?)\s*%`)

	// Plain tokens need at least two digits before the decimal point, or
	// comma grouping, to count as an amount.
	plainAmountRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{2,6}(?:\.\d{1,2})?\b`),
		regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?\b`),
	}
)

// AmountExtractor pulls validated numeric amounts out of a single token.
type AmountExtractor struct {
	MaxValue float64
}

// Extract branches on token shape: currency-tagged, percentage, or plain
// number. Results are deduplicated by value in first-seen order.
func (e AmountExtractor) Extract(token string) []float64 {
	var amounts []float64

	switch {
	case currencyMarkerRe.MatchString(token):
		for _, ca := range currencyAmountRes {
			for _, m := range ca.re.FindAllStringSubmatch(token, -1) {
				v, err := strconv.ParseFloat(m[ca.numGroup], 64)
				if err != nil {
					continue
				}
				if v >= 1.0 && v <= e.MaxValue {
					amounts = append(amounts, v)
				}
			}
		}

	case strings.Contains(token, "%"):
		if m := percentAmountRe.FindStringSubmatch(token); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0.1 && v <= 100 {
				amounts = append(amounts, v)
			}
		}

	default:
		for _, re := range plainAmountRes {
			for _, m := range re.FindAllString(token, -1) {
				v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
				if err != nil {
					continue
				}
				if v >= 1.0 && v <= e.MaxValue {
					amounts = append(amounts, v)
				}
			}
		}
	}

	return dedupeFloats(amounts)
}

func dedupeFloats(values []float64) []float64 {
	seen := make(map[float64]bool, len(values))
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
