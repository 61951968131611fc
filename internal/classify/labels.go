package classify

import (
	"regexp"
	"strings"

	"github.com/harish176/plum-project/internal/domain"
)

var (
	nonLabelCharsRe = regexp.MustCompile(`[^\w\s]`)
	labelSpacesRe   = regexp.MustCompile(`\s+`)
)

// deriveLabel turns a classified type into the label reported to the caller.
// Canonical financial types and known service types pass through; everything
// else walks a ladder of increasingly loose context scans before settling on a
// size-banded generic name.
func deriveLabel(amount float64, ctx, typ, dynamic string) string {
	if dynamic != "" {
		return dynamic
	}
	if typ == domain.TypeTax || domain.CanonicalFinancialTypes[typ] {
		return typ
	}
	if knownServiceTypes[typ] {
		return typ
	}

	ctxLower := strings.ToLower(ctx)

	// Pass 1: score the service label tables against the context.
	bestName, bestScore := "", 0
	for _, ip := range itemPatterns {
		score := 0
		for _, re := range ip.patterns {
			score += len(re.FindAllString(ctxLower, -1))
		}
		if score > bestScore {
			bestName, bestScore = ip.name, score
		}
	}
	if bestName != "" {
		return bestName
	}

	// Pass 2: a description phrase attached to the amount itself.
	if label := descriptionLabel(amount, ctx); label != "" {
		return label
	}

	// Pass 3: any service word anywhere in the context.
	for _, re := range serviceWordPatterns {
		if m := re.FindStringSubmatch(ctxLower); m != nil {
			return sanitizeLabel(m[1])
		}
	}

	// Pass 4: any non-generic word right before the amount.
	wordRe := regexp.MustCompile(`(?i)\b([a-zA-Z]{3,})\s*:?\s*Rs\.?\s*` + regexp.QuoteMeta(amountString(amount)))
	if m := wordRe.FindStringSubmatch(ctx); m != nil {
		word := strings.ToLower(m[1])
		if !genericLabelWords[word] {
			return word
		}
	}

	if typ != domain.TypeOther {
		return typ
	}

	switch {
	case amount >= 1000:
		return "major_service"
	case amount >= 500:
		return "standard_service"
	case amount >= 100:
		return "minor_service"
	default:
		return "basic_service"
	}
}

// descriptionLabel looks for "Label: Rs.N", "Label - Rs.N" and similar shapes
// and returns a cleaned-up label.
func descriptionLabel(amount float64, ctx string) string {
	esc := regexp.QuoteMeta(amountString(amount))
	descRes := []*regexp.Regexp{
		regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s]+?):\s*Rs\.?\s*` + esc),
		regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s]+?)\s*-\s*Rs\.?\s*` + esc),
		regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s]+?)\s+Rs\.?\s*` + esc),
		regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s]+?)\s*₹\s*` + esc),
		regexp.MustCompile(`(?i)Rs\.?\s*` + esc + `\s+([a-zA-Z][a-zA-Z\s]+)`),
	}

	for _, re := range descRes {
		m := re.FindStringSubmatch(ctx)
		if m == nil {
			continue
		}
		desc := strings.ToLower(strings.TrimSpace(m[1]))
		desc = nonLabelCharsRe.ReplaceAllString(desc, "")
		desc = labelSpacesRe.ReplaceAllString(strings.TrimSpace(desc), "_")

		if desc != "" && !genericLabelWords[desc] && len(desc) > 2 {
			return desc
		}
	}
	return ""
}
