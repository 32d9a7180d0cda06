package phoneme

import (
	"context"
	"strings"
	"unicode"

	"github.com/kitsunelabs/airi/internal/config"
)

// Phonemizer resolves each word of a span to phonemes, consulting the
// hand-authored override tables before the backend. A word neither source
// can convert stays literal rather than failing the span.
type Phonemizer struct {
	tables  *config.TableStore
	backend Backend
}

func NewPhonemizer(tables *config.TableStore, backend Backend) *Phonemizer {
	return &Phonemizer{tables: tables, backend: backend}
}

// Phonemize converts every word of text for the given language.
func (p *Phonemizer) Phonemize(ctx context.Context, text, lang string) []Word {
	t := p.tables.Current()
	locale := Locale(lang)

	fields := strings.Fields(text)
	out := make([]Word, 0, len(fields))
	for _, field := range fields {
		bare := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if bare == "" {
			out = append(out, Word{Text: field, Literal: true})
			continue
		}

		// Overrides are pronunciation respellings, so they still go
		// through the backend; the respelling is what gets phonemized.
		input := bare
		if override, ok := t.PhoneticOverride(lang, bare); ok {
			input = override
		}

		phon, err := p.backend.Phonemize(ctx, input, locale)
		if err != nil || strings.TrimSpace(phon) == "" {
			out = append(out, Word{Text: field, Literal: true})
			continue
		}
		out = append(out, Word{Text: field, Phonemes: strings.Fields(phon)})
	}
	return out
}

// DragWords applies vowel stretching across a phonemized span. The dramatic
// bonus only ever lands on the closing phoneme of the last word.
func DragWords(words []Word, multiplier int, dramatic bool) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = w
		if w.Literal || len(w.Phonemes) == 0 {
			continue
		}
		out[i].Phonemes = Stretch(w.Phonemes, multiplier, dramatic && i == len(words)-1)
	}
	return out
}
