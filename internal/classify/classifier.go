package classify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/textproc"
)

// labelBeforeRe checks whether the text leading up to an amount ends with a
// descriptive label ("Consultation: ", "Room rent - ").
var labelBeforeRe = regexp.MustCompile(`(?i)[a-z][a-z\s\-]+(?::\s*|[-\s]+)$`)

// garbledFieldRes restores field names the character corrector rewrites.
// "due" is an amount indicator, so the contextual digit pass turns "Due" into
// "Du0" whether or not a colon follows.
var garbledFieldRes = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\bDu0\b`), "Due"},
	{regexp.MustCompile(`\bdu0\b`), "due"},
	{regexp.MustCompile(`\bTota1\b`), "Total"},
	{regexp.MustCompile(`\btota1\b`), "total"},
}

// Classifier assigns a financial or service label to each normalized amount
// using the context the amount appears in.
type Classifier struct {
	cfg       config.ClassifyConfig
	keywords  []config.TypeKeywords
	corrector *textproc.Corrector
	excluded  map[string]bool
	logger    *zap.Logger
}

func NewClassifier(cfg config.ClassifyConfig, keywords []config.TypeKeywords, corrector *textproc.Corrector, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	excluded := make(map[string]bool, len(cfg.ExcludedPhrases))
	for _, p := range cfg.ExcludedPhrases {
		excluded[strings.ToLower(p)] = true
	}
	return &Classifier{
		cfg:       cfg,
		keywords:  keywords,
		corrector: corrector,
		excluded:  excluded,
		logger:    logger,
	}
}

// Classify labels each amount using its surrounding context in originalText.
// The returned confidence is the mean of the per-amount confidences.
func (c *Classifier) Classify(amounts []float64, originalText, source string) ([]domain.AmountItem, float64) {
	if len(amounts) == 0 {
		return nil, 0.0
	}

	fullLower := strings.ToLower(textproc.Clean(originalText))
	searchText := c.prepareSearchText(originalText)

	items := make([]domain.AmountItem, 0, len(amounts))
	var confSum float64

	for _, amount := range amounts {
		ctx := c.contextFor(amount, searchText, originalText)
		typ, conf, dynamic := c.classifyOne(amount, ctx, fullLower)
		label := deriveLabel(amount, ctx, typ, dynamic)

		items = append(items, domain.AmountItem{Type: label, Value: amount, Source: source})
		confSum += conf

		c.logger.Debug("classified amount",
			zap.Float64("amount", amount),
			zap.String("label", label),
			zap.Float64("confidence", conf))
	}

	if c.cfg.ResolveConflicts {
		items = c.resolveConflicts(items)
	}

	return items, confSum / float64(len(amounts))
}

// prepareSearchText corrects the text the same way the extraction stage did so
// corrected amounts can be located, and repairs field names the character
// corrector garbles.
func (c *Classifier) prepareSearchText(text string) string {
	corrected, _ := c.corrector.Correct(text)

	if strings.Contains(strings.ToLower(corrected), "discount") {
		corrected = strings.ReplaceAll(corrected, "1%", "10%")
	}
	for _, gf := range garbledFieldRes {
		corrected = gf.re.ReplaceAllString(corrected, gf.replacement)
	}

	return corrected
}

// contextFor locates the best occurrence of amount in searchText and returns
// the phrase around it. Candidate occurrences are scored: a descriptive label
// before the amount beats a bare number, a currency-tagged match beats a plain
// one, and short focused phrases beat long ones.
func (c *Classifier) contextFor(amount float64, searchText, rawText string) string {
	amountStr := amountString(amount)
	esc := regexp.QuoteMeta(amountStr)

	patterns := []struct {
		re       *regexp.Regexp
		currency bool
	}{
		{regexp.MustCompile(`(?i)Rs\.` + esc + `\b`), true},
		{regexp.MustCompile(`(?i)Rs\. ` + esc + `\b`), true},
		{regexp.MustCompile(`(?i)₹` + esc + `\b`), true},
		{regexp.MustCompile(`(?i)₹ ` + esc + `\b`), true},
		{regexp.MustCompile(`(?i)\b` + esc + `\b`), false},
	}

	best := ""
	bestScore := 0
	for _, p := range patterns {
		for _, m := range p.re.FindAllStringIndex(searchText, -1) {
			start, end := phraseBounds(searchText, m[0], m[1], 40)
			ctx := strings.TrimSpace(searchText[start:end])

			score := 0
			if labelBeforeRe.MatchString(searchText[start:m[0]]) {
				score += 3
			}
			if p.currency {
				score += 2
			}
			if len(ctx) < 80 {
				score++
			}
			if score > bestScore {
				best = ctx
				bestScore = score
			}
		}
	}

	// Small amounts with no context are often percentages whose '%' got
	// separated from the number during extraction. Look for the percentage
	// form in the raw text.
	if best == "" && amount > 0 && amount <= 100 {
		best = percentContext(amount, rawText)
	}

	if best == "" {
		if pos := strings.Index(rawText, amountStr); pos >= 0 {
			start, end := clampWindow(rawText, pos, pos+len(amountStr), 30)
			best = strings.TrimSpace(rawText[start:end])
		} else if len(rawText) > 60 {
			best = strings.TrimSpace(rawText[:snapRuneStart(rawText, 60)])
		} else {
			best = strings.TrimSpace(rawText)
		}
	}

	return best
}

// classifyOne assigns a type and confidence to one amount. A direct label
// association short-circuits keyword scoring; otherwise keywords and amount
// heuristics vote. The third return value carries a dynamic service label for
// phrases not in any table.
func (c *Classifier) classifyOne(amount float64, ctx, fullLower string) (string, float64, string) {
	esc := regexp.QuoteMeta(amountString(amount))

	directRes := []*regexp.Regexp{
		regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s\-]+):\s*Rs\.?\s*` + esc),
		regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s\-]+)\s+Rs\.?\s*` + esc),
		regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s\-]+)\s*₹\s*` + esc),
	}

	for _, re := range directRes {
		m := re.FindStringSubmatch(ctx)
		if m == nil {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(m[1]))

		for _, da := range directAssociations {
			if strings.Contains(label, da.phrase) {
				return da.typ, 0.9, ""
			}
		}

		// An unrecognized alphabetic phrase before a currency-tagged
		// amount is treated as a service name in its own right.
		if !c.excluded[label] && len(label) > c.cfg.MinPhraseLength && isAlphaSpaces(label) {
			dynamic := sanitizeLabel(label)
			c.logger.Info("dynamic service label", zap.String("label", dynamic))
			return domain.TypeOther, 0.9, dynamic
		}
	}

	// Keyword voting over the local context (weight 2) and the full text
	// (weight 0.5), then amount-magnitude and position heuristics.
	scores := map[string]float64{}
	var order []string
	add := func(typ string, delta float64) {
		if delta == 0 {
			return
		}
		if _, ok := scores[typ]; !ok {
			order = append(order, typ)
		}
		scores[typ] += delta
	}

	ctxLower := strings.ToLower(ctx)
	for _, tk := range c.keywords {
		var score float64
		for _, kw := range tk.Keywords {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)
			score += float64(len(re.FindAllString(ctxLower, -1))) * 2
			score += float64(len(re.FindAllString(fullLower, -1))) * 0.5
		}
		add(tk.Type, score)
	}

	c.applyHeuristics(amount, ctxLower, fullLower, scores, add)

	if len(order) == 0 {
		return domain.TypeOther, 0.2, ""
	}

	bestType, bestScore := "", math.Inf(-1)
	for _, typ := range order {
		if scores[typ] > bestScore {
			bestType, bestScore = typ, scores[typ]
		}
	}
	conf := bestScore * 0.1
	if conf > 1.0 {
		conf = 1.0
	}
	return bestType, conf, ""
}

func (c *Classifier) applyHeuristics(amount float64, ctxLower, fullLower string, scores map[string]float64, add func(string, float64)) {
	// Values up to 100 next to a percent cue lean discount.
	if amount > 0 && amount <= 100 {
		if strings.Contains(ctxLower, "%") || strings.Contains(ctxLower, "percent") || strings.Contains(ctxLower, "discount") {
			if _, ok := scores[domain.TypeDiscount]; ok {
				scores[domain.TypeDiscount] += 2
			}
		}
	}

	// Large values lean total.
	if amount > 1000 {
		if _, ok := scores[domain.TypeTotalBill]; ok {
			scores[domain.TypeTotalBill]++
		} else {
			add(domain.TypeTotalBill, 1)
		}
	}

	// Small round-ish values lean copay or discount.
	if amount >= 10 && amount <= 100 {
		for _, typ := range []string{domain.TypeCopay, domain.TypeDiscount} {
			if _, ok := scores[typ]; ok {
				scores[typ] += 0.5
			}
		}
	}

	// Bills put totals near the top and balances near the bottom.
	if pos := strings.Index(fullLower, ctxLower); pos >= 0 && len(fullLower) > 0 {
		rel := float64(pos) / float64(len(fullLower))
		if rel < 0.3 {
			if _, ok := scores[domain.TypeTotalBill]; ok {
				scores[domain.TypeTotalBill] += 0.5
			}
		}
		if rel > 0.7 {
			if _, ok := scores[domain.TypeDue]; ok {
				scores[domain.TypeDue] += 0.5
			}
		}
	}
}

// percentContext finds line-level context for a value that appears as a
// percentage in the raw text.
func percentContext(amount float64, text string) string {
	forms := []string{
		fmt.Sprintf("%d%%", int(amount)),
		fmt.Sprintf("%.1f%%", amount),
	}
	for _, form := range forms {
		pos := strings.Index(text, form)
		if pos < 0 {
			continue
		}
		start, end := lineBounds(text, pos, pos+len(form), 30)
		return strings.TrimSpace(text[start:end])
	}
	return ""
}

// phraseBounds expands a match outward to phrase separators, up to limit bytes
// each way.
func phraseBounds(s string, start, end, limit int) (int, int) {
	cs := start
	for cs > 0 && s[cs-1] != '\n' && s[cs-1] != '.' && s[cs-1] != '|' && start-cs < limit {
		cs--
	}
	ce := end
	for ce < len(s) && s[ce] != '\n' && s[ce] != '.' && s[ce] != '|' && ce-end < limit {
		ce++
	}
	return snapRuneStart(s, cs), snapRuneStart(s, ce)
}

// lineBounds expands a match outward to line breaks, up to limit bytes each
// way.
func lineBounds(s string, start, end, limit int) (int, int) {
	cs := start
	for cs > 0 && s[cs-1] != '\n' && start-cs < limit {
		cs--
	}
	ce := end
	for ce < len(s) && s[ce] != '\n' && ce-end < limit {
		ce++
	}
	return snapRuneStart(s, cs), snapRuneStart(s, ce)
}

func clampWindow(s string, start, end, window int) (int, int) {
	cs := start - window
	if cs < 0 {
		cs = 0
	}
	ce := end + window
	if ce > len(s) {
		ce = len(s)
	}
	return snapRuneStart(s, cs), snapRuneStart(s, ce)
}

// snapRuneStart moves an offset back to the nearest rune boundary.
func snapRuneStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// amountString renders an amount the way it appears on a bill: integers
// without a decimal point.
func amountString(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isAlphaSpaces(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

func sanitizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}
