// Package phoneme converts words to phoneme strings for synthesizers that
// accept phoneme input, with hand-authored overrides taking priority over
// the grapheme-to-phoneme backend.
package phoneme

import (
	"context"
	"strings"
)

// Backend turns one word into a space-separated phoneme string for the
// given locale.
type Backend interface {
	Phonemize(ctx context.Context, word, locale string) (string, error)
}

// Word is the phonemization result for a single word. Literal marks words
// the backend could not convert; the synthesizer reads those as plain text.
type Word struct {
	Text     string
	Phonemes []string
	Literal  bool
}

// stretchable lists the vowel phonemes that can be lengthened without
// turning into a different sound.
var stretchable = map[string]struct{}{
	"AA": {}, "AE": {}, "AH": {}, "AO": {}, "EH": {},
	"EY": {}, "IH": {}, "IY": {}, "OW": {}, "UH": {}, "UW": {},
}

// Stretchable reports whether a phoneme may be lengthened. Stress digits
// are ignored.
func Stretchable(p string) bool {
	_, ok := stretchable[strings.TrimRight(strings.ToUpper(p), "012")]
	return ok
}

// Stretch lengthens every stretchable phoneme by multiplier-1 extra
// repeats. With dramatic set, the final phoneme gets two more repeats on
// top when it is stretchable.
func Stretch(phonemes []string, multiplier int, dramatic bool) []string {
	if multiplier <= 1 && !dramatic {
		return phonemes
	}
	out := make([]string, 0, len(phonemes)*multiplier)
	for i, p := range phonemes {
		out = append(out, p)
		if !Stretchable(p) {
			continue
		}
		extra := multiplier - 1
		if dramatic && i == len(phonemes)-1 {
			extra += 2
		}
		for j := 0; j < extra; j++ {
			out = append(out, p)
		}
	}
	return out
}

// Locale maps a detected language code to the backend voice locale.
func Locale(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "pt":
		return "pt"
	case "ja":
		return "ja"
	default:
		return "en-us"
	}
}
