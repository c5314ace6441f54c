package textnorm

import "strings"

// Tokenize normalizes s and splits it on runs of whitespace. Empty tokens
// are never returned.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// NormalizeTokens normalizes each token independently and drops tokens that
// normalize to nothing. A token that contains inner whitespace after
// normalization is split further.
func NormalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, Tokenize(tok)...)
	}
	return out
}

// TokensToSearchKeys joins tokens with single spaces. The result is the
// string stored in hadith.search_keys and matched with LIKE.
func TokensToSearchKeys(tokens []string) string {
	return strings.Join(tokens, " ")
}
