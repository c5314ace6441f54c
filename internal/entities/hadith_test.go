package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHadith_Tokens(t *testing.T) {
	t.Run("decodes stored tokens", func(t *testing.T) {
		h := Hadith{UID: "bukhari:1", TokensJSON: `["انما","الاعمال","بالنيات"]`}

		tokens, err := h.Tokens()
		require.NoError(t, err)
		assert.Equal(t, []string{"انما", "الاعمال", "بالنيات"}, tokens)
	})

	t.Run("empty column yields no tokens", func(t *testing.T) {
		tokens, err := Hadith{}.Tokens()
		require.NoError(t, err)
		assert.Nil(t, tokens)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		_, err := Hadith{UID: "bukhari:2", TokensJSON: "not json"}.Tokens()
		assert.ErrorContains(t, err, "bukhari:2")
	})
}

func TestMakeUID(t *testing.T) {
	assert.Equal(t, "muslim:10", MakeUID("muslim", "10"))
}
