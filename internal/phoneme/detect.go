package phoneme

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
)

var portugueseMarks = map[rune]struct{}{
	'ã': {}, 'õ': {}, 'ç': {}, 'á': {}, 'é': {}, 'í': {}, 'ó': {}, 'ú': {},
	'â': {}, 'ê': {}, 'ô': {}, 'à': {},
	'Ã': {}, 'Õ': {}, 'Ç': {}, 'Á': {}, 'É': {}, 'Í': {}, 'Ó': {}, 'Ú': {},
	'Â': {}, 'Ê': {}, 'Ô': {}, 'À': {},
}

// Detect guesses the language of a span. Kana or CJK runes decide Japanese
// and Portuguese diacritics decide Portuguese outright; unmarked Latin text
// goes to the trigram detector, clamped to the set the synthesizer speaks.
// English is always the safe default.
func Detect(text string) string {
	sawPortuguese := false
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return "ja"
		}
		if _, ok := portugueseMarks[r]; ok {
			sawPortuguese = true
		}
	}
	if sawPortuguese {
		return "pt"
	}

	switch whatlanggo.DetectLang(text) {
	case whatlanggo.Por:
		return "pt"
	case whatlanggo.Jpn:
		return "ja"
	default:
		return "en"
	}
}
