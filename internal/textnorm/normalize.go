// Package textnorm canonicalizes Arabic text for storage and search.
//
// Normalize is the only definition of how text is compared: the seeder uses
// it when building search keys and the query layer uses it on user input.
// Both sides must go through the same function or LIKE matches silently miss.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	tatweel      = '\u0640'
	alef         = '\u0627'
	alefHamza    = '\u0623'
	alefHamzaLow = '\u0625'
	alefMadda    = '\u0622'
	alefMaqsura  = '\u0649'
	ya           = '\u064A'
	taMarbuta    = '\u0629'
	ha           = '\u0647'
)

// diacritics covers every combining mark of the Arabic block: the harakat,
// tanween, shadda, sukun and the extended marks up to U+065F, the superscript
// alef, and the honorific and Quranic annotation marks.
var diacritics = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0610, Hi: 0x061A, Stride: 1},
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
		{Lo: 0x06D6, Hi: 0x06DC, Stride: 1},
		{Lo: 0x06DF, Hi: 0x06E4, Stride: 1},
		{Lo: 0x06E7, Hi: 0x06E8, Stride: 1},
		{Lo: 0x06EA, Hi: 0x06ED, Stride: 1},
	},
}

var arabicBlock = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
	},
}

// pipeline builds a fresh transformer; transform.Chain keeps internal
// buffers and must not be shared between goroutines.
func pipeline() transform.Transformer {
	return transform.Chain(
		runes.Remove(runes.In(diacritics)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == tatweel })),
		runes.Map(unifyAlef),
		runes.Map(func(r rune) rune {
			if r == alefMaqsura {
				return ya
			}
			return r
		}),
		// Ta marbuta becomes ha. This drops a grammatical distinction on purpose.
		runes.Map(func(r rune) rune {
			if r == taMarbuta {
				return ha
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return !unicode.Is(arabicBlock, r) && !unicode.IsSpace(r)
		})),
	)
}

func unifyAlef(r rune) rune {
	switch r {
	case alefHamza, alefHamzaLow, alefMadda:
		return alef
	}
	return r
}

// Normalize returns the canonical search form of s. The result is
// deterministic and Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	// Rune removers and mappers cannot fail on string input.
	out, _, _ := transform.String(pipeline(), s)
	return strings.TrimSpace(out)
}
