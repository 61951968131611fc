package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/currency"
	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/extract"
	"github.com/harish176/plum-project/internal/textproc"
)

func newService() *extract.Service {
	cfg := config.PipelineConfig{
		MinAmountValue: 0.01,
		MaxAmountValue: 1000000,
		MaxTextLength:  10000,
		MaxImageBytes:  10 * 1024 * 1024,
	}
	corrector := textproc.NewCorrector(config.DefaultDigitCorrections())
	tokenizer := textproc.NewTokenizer(nil, 20)
	detector := currency.NewDetector(config.DefaultCurrencyPatterns())
	return extract.NewService(cfg, tokenizer, corrector, detector, nil, nil)
}

func TestFromText(t *testing.T) {
	svc := newService()

	t.Run("labeled amounts", func(t *testing.T) {
		ext := svc.FromText("Total: INR 1200 | Paid: 1000")

		assert.Equal(t, domain.ExtractionSuccess, ext.Status)
		assert.Equal(t, []string{"1200", "1000"}, ext.RawTokens)
		assert.Equal(t, domain.CurrencyINR, ext.CurrencyHint)
		assert.Greater(t, ext.Confidence, 0.3)
	})

	t.Run("empty text", func(t *testing.T) {
		ext := svc.FromText("")
		assert.Equal(t, domain.ExtractionError, ext.Status)
		assert.Equal(t, "text input cannot be empty", ext.Reason)
	})

	t.Run("whitespace only", func(t *testing.T) {
		ext := svc.FromText(" \t\n ")
		assert.Equal(t, domain.ExtractionError, ext.Status)
		assert.Equal(t, "text input cannot be only whitespace", ext.Reason)
	})

	t.Run("over length limit", func(t *testing.T) {
		ext := svc.FromText(strings.Repeat("a", 10001))
		assert.Equal(t, domain.ExtractionError, ext.Status)
		assert.Equal(t, "text input too long", ext.Reason)
	})

	t.Run("no numeric content", func(t *testing.T) {
		ext := svc.FromText("consultation notes without figures")
		assert.Equal(t, domain.ExtractionNoAmountsFound, ext.Status)
		assert.Equal(t, "no numeric tokens found in text", ext.Reason)
	})
}
