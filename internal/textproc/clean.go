package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kitsunelabs/airi/internal/config"
)

var (
	urlPattern        = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://\S+`)
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	inlineCodePattern = regexp.MustCompile("`[^`]*`")
	actionPattern     = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	repeatPunct       = regexp.MustCompile(`([.!?])[.!?]+`)
	multiSpace        = regexp.MustCompile(`\s{2,}`)
)

// Cleaner strips markup, links, emoji and decorative noise from raw model text
// so the synthesizer only ever sees speakable characters. Stage order matters:
// each stage may leave artifacts the next one handles.
type Cleaner struct {
	tables *config.TableStore
}

func NewCleaner(tables *config.TableStore) *Cleaner {
	return &Cleaner{tables: tables}
}

// Clean runs the full lexical cleaning pipeline. An empty return value means
// "do not synthesize".
func (c *Cleaner) Clean(text string) string {
	t := c.tables.Current()

	text = urlPattern.ReplaceAllString(text, "[link]")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = inlineCodePattern.ReplaceAllString(text, "")
	text = replaceEmoji(text, t.EmojiSpeech)
	text = actionPattern.ReplaceAllStringFunc(text, func(m string) string {
		return t.Action(strings.Trim(m, "*"))
	})
	text = stripUnspeakable(text)
	text = ensureTerminalPunctuation(text)
	text = repeatPunct.ReplaceAllString(text, "$1")
	text = multiSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if punctuationOnly(text) {
		return ""
	}
	return text
}

// replaceEmoji maps emoji to speakable phrases via the configured table and
// deletes anything left over, including runs at the edges of the span.
func replaceEmoji(text string, speech map[string]string) string {
	for name, phrase := range speech {
		lit, ok := emojiByName[name]
		if !ok {
			continue
		}
		text = strings.ReplaceAll(text, lit, phrase)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmojiRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols + dingbats
		return true
	case r == 0x200D || r == 0xFE0F || r == 0x20E3: // joiners and variation marks
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	default:
		return false
	}
}

// stripUnspeakable deletes ASCII control characters, unicode symbol
// categories and box-drawing ranges that sound wrong when spoken.
func stripUnspeakable(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r < 0x20 || r == 0x7F:
			continue
		case r == '~':
			// Tildes carry tone; the prosody chain consumes them.
			b.WriteRune(r)
		case unicode.In(r, unicode.So, unicode.Sm, unicode.Sk):
			continue
		case r >= 0x2500 && r <= 0x25FF: // box drawing, blocks, geometric shapes
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ensureTerminalPunctuation(text string) string {
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return text
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	}
	return text + "."
}

// punctuationOnly reports whether the cleaned span carries no speakable
// content, e.g. a bare quote, ellipsis or period.
func punctuationOnly(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
