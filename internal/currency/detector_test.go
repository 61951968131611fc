package currency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/currency"
	"github.com/harish176/plum-project/internal/domain"
)

func TestDetector(t *testing.T) {
	d := currency.NewDetector(config.DefaultCurrencyPatterns())

	t.Run("dollar symbol", func(t *testing.T) {
		cur, conf := d.Detect("Total: $1200")
		assert.Equal(t, domain.CurrencyUSD, cur)
		assert.Greater(t, conf, 0.0)
	})

	t.Run("rupee symbol", func(t *testing.T) {
		cur, _ := d.Detect("Amount: ₹500")
		assert.Equal(t, domain.CurrencyINR, cur)
	})

	t.Run("euro symbol", func(t *testing.T) {
		cur, _ := d.Detect("Amount: €500")
		assert.Equal(t, domain.CurrencyEUR, cur)
	})

	t.Run("pound symbol", func(t *testing.T) {
		cur, _ := d.Detect("Bill: £300")
		assert.Equal(t, domain.CurrencyGBP, cur)
	})

	t.Run("currency code", func(t *testing.T) {
		cur, conf := d.Detect("Total: INR 1200")
		assert.Equal(t, domain.CurrencyINR, cur)
		assert.Greater(t, conf, 0.0)
	})

	t.Run("no signal", func(t *testing.T) {
		cur, conf := d.Detect("nothing of note")
		assert.Equal(t, domain.CurrencyUnknown, cur)
		assert.Zero(t, conf)
	})

	t.Run("empty text", func(t *testing.T) {
		cur, conf := d.Detect("")
		assert.Equal(t, domain.CurrencyUnknown, cur)
		assert.Zero(t, conf)
	})

	t.Run("earlier match wins mixed text", func(t *testing.T) {
		cur, _ := d.Detect("Rs. 100 and $100")
		assert.Equal(t, domain.CurrencyINR, cur)
	})
}
