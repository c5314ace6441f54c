package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Run("never emits empty tokens", func(t *testing.T) {
		tokens := Tokenize("  قال   رسول  ")
		assert.Equal(t, []string{"قال", "رسول"}, tokens)
	})

	t.Run("normalizes before splitting", func(t *testing.T) {
		tokens := Tokenize("بِسْمِ اللَّهِ")
		assert.Equal(t, []string{"بسم", "الله"}, tokens)
	})

	t.Run("splits on tabs and newlines", func(t *testing.T) {
		tokens := Tokenize("قال\tرسول\nالله")
		assert.Len(t, tokens, 3)
	})

	t.Run("non-arabic input yields no tokens", func(t *testing.T) {
		assert.Empty(t, Tokenize("abc 123"))
	})
}

func TestNormalizeTokens(t *testing.T) {
	tokens := NormalizeTokens([]string{"بِسْمِ", "", "abc", "اللَّهِ"})
	assert.Equal(t, []string{"بسم", "الله"}, tokens)
}

func TestTokensToSearchKeys(t *testing.T) {
	assert.Equal(t, "بسم الله", TokensToSearchKeys([]string{"بسم", "الله"}))
	assert.Equal(t, "", TokensToSearchKeys(nil))
}
