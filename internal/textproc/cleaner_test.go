package textproc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harish176/plum-project/internal/textproc"
)

func TestClean(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", textproc.Clean(""))
		assert.Equal(t, "", textproc.Clean("   \t\n  "))
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "Paid 1000", textproc.Clean("  Paid \t\n  1000  "))
	})

	t.Run("pads field separators", func(t *testing.T) {
		assert.Equal(t, "a | b", textproc.Clean("a|b"))
		assert.Equal(t, "Total: 1200", textproc.Clean("Total:1200"))
	})

	t.Run("strips disallowed characters", func(t *testing.T) {
		cleaned := textproc.Clean("Total* 500 #note")
		assert.NotContains(t, cleaned, "*")
		assert.NotContains(t, cleaned, "#")
		assert.Contains(t, cleaned, "500")
	})

	t.Run("keeps currency symbols", func(t *testing.T) {
		cleaned := textproc.Clean("₹500 $20 €30 £40 10%")
		assert.Contains(t, cleaned, "₹500")
		assert.Contains(t, cleaned, "$20")
		assert.Contains(t, cleaned, "10%")
	})
}
