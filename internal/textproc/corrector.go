package textproc

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/harish176/plum-project/internal/config"
)

// currencyCodes are never rewritten by the contextual digit pass.
var currencyCodes = map[string]bool{
	"rs": true, "inr": true, "usd": true, "eur": true, "gbp": true,
}

// protectedWords are common bill words that contain confusable characters but
// must stay words.
var protectedWords = map[string]bool{
	"total": true, "hospital": true, "patient": true,
	"discount": true, "consultation": true,
}

// amountIndicators mark a mixed word as numeric-like when majority-digit
// counting is inconclusive.
var amountIndicators = []string{"rs", "inr", "usd", "total", "amount", "paid", "due"}

// wordRepairs fixes common garbled bill keywords after digit repair has run.
var wordRepairs = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\bAm0unt\b`), "Amount"},
	{regexp.MustCompile(`\bam0unt\b`), "amount"},
	{regexp.MustCompile(`\bT0tal\b`), "Total"},
	{regexp.MustCompile(`\bt0tal\b`), "total"},
	{regexp.MustCompile(`\bBa1ance\b`), "Balance"},
	{regexp.MustCompile(`\bba1ance\b`), "balance"},
	{regexp.MustCompile(`\bFina1\b`), "Final"},
	{regexp.MustCompile(`\bfina1\b`), "final"},
	{regexp.MustCompile(`\bPa1d\b`), "Paid"},
	{regexp.MustCompile(`\bpa1d\b`), "paid"},
	{regexp.MustCompile(`\bD1scount\b`), "Discount"},
	{regexp.MustCompile(`\bd1scount\b`), "discount"},
}

// Corrector rewrites visually-confusable characters into digits within numeric
// contexts and repairs known garbled keywords. Running it twice over already
// corrected text yields no further corrections.
type Corrector struct {
	table           []config.DigitCorrection
	currencyRepairs []currencyRepair
	wordPatterns    []*regexp.Regexp
}

type currencyRepair struct {
	re         *regexp.Regexp
	trailingAt bool // the matched run of '@' stands for "00"
	prefix     string
}

// NewCorrector builds a Corrector from a digit-confusion table.
func NewCorrector(table []config.DigitCorrection) *Corrector {
	c := &Corrector{table: table}

	var class strings.Builder
	for _, dc := range table {
		class.WriteString(regexp.QuoteMeta(dc.From))
	}
	confusables := class.String()

	for _, sym := range []string{`Rs\.`, `₹`} {
		prefix := "Rs."
		if sym == `₹` {
			prefix = "₹"
		}
		c.currencyRepairs = append(c.currencyRepairs,
			currencyRepair{regexp.MustCompile(sym + `(\d+)@+`), true, prefix},
			currencyRepair{regexp.MustCompile(sym + `([` + confusables + `]\d+)`), false, prefix},
			currencyRepair{regexp.MustCompile(sym + `(\d*[` + confusables + `]+\d*)`), false, prefix},
			currencyRepair{regexp.MustCompile(sym + `(\d+[` + confusables + `]+)`), false, prefix},
		)
	}

	for _, dc := range c.table {
		c.wordPatterns = append(c.wordPatterns,
			regexp.MustCompile(`\b\w*`+regexp.QuoteMeta(dc.From)+`\w*\b`))
	}

	return c
}

// Correct applies the three passes in order and returns the corrected text
// with a log of every substitution. The log is diagnostic only.
func (c *Corrector) Correct(text string) (string, []string) {
	corrected := text
	var corrections []string

	// Pass 1: currency-tagged amount repair. Matches are processed
	// right-to-left so earlier replacements do not shift later offsets.
	for _, cr := range c.currencyRepairs {
		matches := cr.re.FindAllStringSubmatchIndex(corrected, -1)
		for i := len(matches) - 1; i >= 0; i-- {
			m := matches[i]
			original := corrected[m[0]:m[1]]
			run := corrected[m[2]:m[3]]
			var repaired string
			if cr.trailingAt {
				repaired = cr.prefix + run + "00"
			} else {
				repaired = cr.prefix + c.correctAmountRun(run)
			}
			if repaired != original {
				corrected = corrected[:m[0]] + repaired + corrected[m[1]:]
				corrections = append(corrections,
					fmt.Sprintf("Currency amount: '%s' -> '%s'", original, repaired))
			}
		}
	}

	// Pass 2: contextual digit repair on numeric-looking words.
	for i, dc := range c.table {
		if !strings.Contains(corrected, dc.From) {
			continue
		}
		matches := c.wordPatterns[i].FindAllStringIndex(corrected, -1)
		for j := len(matches) - 1; j >= 0; j-- {
			m := matches[j]
			word := corrected[m[0]:m[1]]
			if !strings.Contains(word, dc.From) || !looksNumeric(word) {
				continue
			}
			fixed := strings.ReplaceAll(word, dc.From, dc.To)
			corrected = corrected[:m[0]] + fixed + corrected[m[1]:]
			corrections = append(corrections,
				fmt.Sprintf("'%s' -> '%s' in '%s'", dc.From, dc.To, word))
		}
	}

	// Pass 3: known garbled keywords.
	for _, wr := range wordRepairs {
		if !wr.re.MatchString(corrected) {
			continue
		}
		before := corrected
		corrected = wr.re.ReplaceAllString(corrected, wr.replacement)
		if before != corrected {
			corrections = append(corrections,
				fmt.Sprintf("Word correction: '%s' -> '%s'", wr.re.String(), wr.replacement))
		}
	}

	return corrected, corrections
}

// CorrectRun rewrites every confusable character in a string, unconditionally.
// Used when the surrounding context has already established the string is an
// amount.
func (c *Corrector) CorrectRun(s string) (string, []string) {
	corrected := s
	var corrections []string
	for _, dc := range c.table {
		if !strings.Contains(corrected, dc.From) {
			continue
		}
		corrected = strings.ReplaceAll(corrected, dc.From, dc.To)
		corrections = append(corrections, fmt.Sprintf("'%s' -> '%s'", dc.From, dc.To))
	}
	return corrected, corrections
}

func (c *Corrector) correctAmountRun(s string) string {
	out, _ := c.CorrectRun(s)
	return out
}

// looksNumeric reports whether a word was likely intended as a number.
func looksNumeric(word string) bool {
	lower := strings.ToLower(word)
	if currencyCodes[lower] || protectedWords[lower] {
		return false
	}

	digits, letters := 0, 0
	for _, r := range word {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
	}
	if digits > letters {
		return true
	}

	for _, ind := range amountIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
