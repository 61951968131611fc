package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^\w\s.,\-+$₹€£()|:%]`)
)

// Clean collapses whitespace, strips characters outside the allow-list, and
// pads field separators so they tokenize cleanly. Deterministic; empty in,
// empty out.
func Clean(text string) string {
	cleaned := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	cleaned = disallowedRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.ReplaceAll(cleaned, "|", " | ")
	cleaned = strings.ReplaceAll(cleaned, ":", ": ")
	return cleaned
}
