package textnorm

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips diacritics", "بِسْمِ", "بسم"},
		{"strips tanween and shadda", "مُحَمَّدٌ", "محمد"},
		{"strips superscript alef", "هٰذا", "هذا"},
		{"strips tatweel", "الـــله", "الله"},
		{"strips quranic annotation marks", "قال\u06D6", "قال"},
		{"strips honorific marks", "عليه \u0611", "عليه"},
		{"unifies hamza above", "أحمد", "احمد"},
		{"unifies hamza below", "إسلام", "اسلام"},
		{"unifies madda", "آمن", "امن"},
		{"maps alef maqsura to ya", "على", "علي"},
		{"maps ta marbuta to ha", "صلاة", "صلاه"},
		{"removes latin, digits and punctuation", "Hadith 12: قال!", "قال"},
		{"keeps arabic-indic digits", "حديث ١٢", "حديث ١٢"},
		{"trims surrounding whitespace", "  قال  ", "قال"},
		{"keeps inner whitespace", "قال  رسول", "قال  رسول"},
		{"empty input", "", ""},
		{"latin only", "hello world", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
		"إِنَّمَا الأَعْمَالُ بِالنِّيَّاتِ",
		"  آمَنَ الرَّسُولُ ـــ 42 ",
		"Mixed العربية text",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestNormalize_RemovesAllCombiningMarks(t *testing.T) {
	out := Normalize("بِسْمِ")

	for _, r := range out {
		assert.False(t, unicode.Is(unicode.Mn, r), "unexpected mark %U", r)
	}
}

func TestNormalize_RemovesEveryArabicCombiningMark(t *testing.T) {
	for r := rune(0x0600); r <= 0x06FF; r++ {
		if !unicode.Is(unicode.Mn, r) {
			continue
		}
		assert.Equal(t, "ب", Normalize("ب"+string(r)), "mark %U", r)
	}
}

func TestNormalize_UnifiesAlefVariants(t *testing.T) {
	want := Normalize("احمد")

	assert.Equal(t, want, Normalize("أحمد"))
	assert.Equal(t, want, Normalize("آحمد"))
	assert.Equal(t, want, Normalize("إحمد"))
}
