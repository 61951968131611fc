package textproc

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/harish176/plum-project/internal/domain"
)

var (
	// Currency-tagged numbers: Rs.100, 100Rs, ₹100, $100.
	currencyTokenRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Rs\.?\s*\d+(?:\.\d+)?`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*Rs`),
		regexp.MustCompile(`₹\s*\d+(?:\.\d+)?`),
		regexp.MustCompile(`\$\s*\d+(?:\.\d+)?`),
	}

	// Standalone numbers with thousands separators and decimals.
	numberTokenRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*(?:\.\d{1,3})?\b`),
		regexp.MustCompile(`\b\d+(?:\.\d{1,3})?\b`),
	}

	// Bare decimals like ".30". Group 1 is the token; the leading capture
	// stands in for a lookbehind rejecting a preceding digit.
	bareDecimalRe = regexp.MustCompile(`(?:^|[^\d])(\.\d{1,3})\b`)

	percentTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?%`)

	markerChars = []string{"%", "$", "₹", "Rs"}
)

// Candidate is a raw pattern hit prior to overlap resolution.
type Candidate struct {
	Token    string
	Position int
	Context  string
}

// OverlapResolver reduces overlapping candidate detections to the tokens that
// survive. Implementations must be deterministic.
type OverlapResolver interface {
	Resolve(candidates []Candidate) []Candidate
}

// BucketResolver groups candidates by coarse position bucket
// (position / Width) and keeps one token per bucket: a currency/percent
// marked token beats a bare number, longer literals beat shorter ones.
type BucketResolver struct {
	Width int
}

// Resolve implements OverlapResolver. Surviving tokens come back in
// positional order.
func (r BucketResolver) Resolve(candidates []Candidate) []Candidate {
	width := r.Width
	if width <= 0 {
		width = 5
	}

	buckets := make(map[int]Candidate)
	var keys []int
	for _, cand := range candidates {
		key := cand.Position / width
		best, ok := buckets[key]
		if !ok {
			buckets[key] = cand
			keys = append(keys, key)
			continue
		}
		if better(cand, best) {
			buckets[key] = cand
		}
	}

	sort.Ints(keys)
	resolved := make([]Candidate, 0, len(keys))
	for _, key := range keys {
		resolved = append(resolved, buckets[key])
	}
	return resolved
}

func better(a, b Candidate) bool {
	am, bm := hasMarker(a.Token), hasMarker(b.Token)
	if am != bm {
		return am
	}
	return len(a.Token) > len(b.Token)
}

func hasMarker(token string) bool {
	for _, m := range markerChars {
		if strings.Contains(token, m) {
			return true
		}
	}
	return false
}

// Tokenizer scans cleaned, corrected text for candidate numeric tokens.
type Tokenizer struct {
	resolver      OverlapResolver
	contextWindow int
}

// NewTokenizer builds a Tokenizer. A nil resolver falls back to a
// BucketResolver of width 5.
func NewTokenizer(resolver OverlapResolver, contextWindow int) *Tokenizer {
	if resolver == nil {
		resolver = BucketResolver{Width: 5}
	}
	if contextWindow <= 0 {
		contextWindow = 20
	}
	return &Tokenizer{resolver: resolver, contextWindow: contextWindow}
}

// ExtractTokens finds candidate numeric tokens with positions and local
// context, then resolves overlapping detections.
func (t *Tokenizer) ExtractTokens(text string) []domain.RawToken {
	var candidates []Candidate

	for _, re := range currencyTokenRes {
		for _, m := range re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, Candidate{
				Token:    strings.TrimSpace(text[m[0]:m[1]]),
				Position: m[0],
				Context:  contextWindow(text, m[0], m[1], t.contextWindow),
			})
		}
	}

	for _, re := range numberTokenRes {
		for _, m := range re.FindAllStringIndex(text, -1) {
			token := strings.TrimSpace(text[m[0]:m[1]])
			if !plainNumberWorthKeeping(token) {
				continue
			}
			candidates = append(candidates, Candidate{
				Token:    token,
				Position: m[0],
				Context:  contextWindow(text, m[0], m[1], t.contextWindow),
			})
		}
	}
	for _, m := range bareDecimalRe.FindAllStringSubmatchIndex(text, -1) {
		token := text[m[2]:m[3]]
		if !plainNumberWorthKeeping(token) {
			continue
		}
		candidates = append(candidates, Candidate{
			Token:    token,
			Position: m[2],
			Context:  contextWindow(text, m[2], m[3], t.contextWindow),
		})
	}

	for _, m := range percentTokenRe.FindAllStringIndex(text, -1) {
		candidates = append(candidates, Candidate{
			Token:    strings.TrimSpace(text[m[0]:m[1]]),
			Position: m[0],
			Context:  contextWindow(text, m[0], m[1], t.contextWindow),
		})
	}

	resolved := t.resolver.Resolve(candidates)
	tokens := make([]domain.RawToken, 0, len(resolved))
	for _, cand := range resolved {
		tokens = append(tokens, domain.RawToken{
			Text:     cand.Token,
			Position: cand.Position,
			Context:  cand.Context,
		})
	}
	return tokens
}

// plainNumberWorthKeeping rejects bare single digits and sub-1 decimals as
// noise.
func plainNumberWorthKeeping(token string) bool {
	s := strings.ReplaceAll(token, ",", "")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return v >= 1.0
}

// contextWindow returns a fixed character window around a match, clamped to
// the text and snapped to rune boundaries.
func contextWindow(text string, start, end, window int) string {
	s := start - window
	if s < 0 {
		s = 0
	}
	for s > 0 && !utf8.RuneStart(text[s]) {
		s--
	}
	e := end + window
	if e > len(text) {
		e = len(text)
	}
	for e < len(text) && !utf8.RuneStart(text[e]) {
		e--
	}
	return text[s:e]
}
