package textproc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harish176/plum-project/internal/textproc"
)

func TestTokenizerExtractTokens(t *testing.T) {
	tok := textproc.NewTokenizer(nil, 0)

	t.Run("plain numbers in order", func(t *testing.T) {
		tokens := tok.ExtractTokens("Total: INR 1200 | Paid: 1000 | Due: 200")
		require.Len(t, tokens, 3)
		assert.Equal(t, "1200", tokens[0].Text)
		assert.Equal(t, "1000", tokens[1].Text)
		assert.Equal(t, "200", tokens[2].Text)
	})

	t.Run("currency token beats overlapping number", func(t *testing.T) {
		tokens := tok.ExtractTokens("Rs.1200 1200")
		require.Len(t, tokens, 2)
		assert.Equal(t, "Rs.1200", tokens[0].Text)
		assert.Equal(t, "1200", tokens[1].Text)
	})

	t.Run("percent token beats bare number", func(t *testing.T) {
		tokens := tok.ExtractTokens("Discount: 10%")
		require.Len(t, tokens, 1)
		assert.Equal(t, "10%", tokens[0].Text)
	})

	t.Run("sub-one decimals are noise", func(t *testing.T) {
		tokens := tok.ExtractTokens("ratio 0.3 only")
		assert.Empty(t, tokens)
	})

	t.Run("context window covers surrounding text", func(t *testing.T) {
		tokens := tok.ExtractTokens("Due: 200")
		require.Len(t, tokens, 1)
		assert.Contains(t, tokens[0].Context, "Due")
	})

	t.Run("no numbers", func(t *testing.T) {
		assert.Empty(t, tok.ExtractTokens("no amounts here"))
	})
}

func TestBucketResolver(t *testing.T) {
	r := textproc.BucketResolver{Width: 5}

	resolved := r.Resolve([]textproc.Candidate{
		{Token: "1200", Position: 3},
		{Token: "Rs.1200", Position: 0},
		{Token: "500", Position: 20},
	})

	require.Len(t, resolved, 2)
	assert.Equal(t, "Rs.1200", resolved[0].Token)
	assert.Equal(t, "500", resolved[1].Token)
}
