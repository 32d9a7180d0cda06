package textproc

import (
	"regexp"
	"strings"

	"github.com/kitsunelabs/airi/internal/config"
)

var (
	vowelCluster  = regexp.MustCompile(`(?i)[aeiouáéíóúâêôãõ]+`)
	tildeLetter   = regexp.MustCompile(`([a-zA-Z])~`)
	trailingEnd   = regexp.MustCompile(`[.?!…~\s]*$`)
	exclamRun     = regexp.MustCompile(`!+`)
	commaRun      = regexp.MustCompile(`([,;])\s*`)
	periodRun     = regexp.MustCompile(`\.\s*`)
	questionRun   = regexp.MustCompile(`\?\s*`)
	multiSpaceRun = regexp.MustCompile(`\s{2,}`)
)

// StyleResult is the output of the prosody transform chain: surface text
// carrying articulation cues plus the synthesizer multipliers.
type StyleResult struct {
	Text  string
	Pitch float64
	Rate  float64
}

// Stylize runs the prosody transform chain for one cleaned span. The stage
// order is fixed; individual stages are switched by the resolved style
// profile. Pitch and rate come from the static emotion table keyed by the
// original label, independent of the text transforms.
func Stylize(t *config.Tables, text, emotion string) StyleResult {
	res, _, _ := stylize(t, text, emotion, false)
	return res
}

// StylizeForPhonemes runs the chain with the vowel drag held back and
// reports the drag parameters so the phoneme layer can stretch vowels
// instead. Dragging in both representations would compound.
func StylizeForPhonemes(t *config.Tables, text, emotion string) (res StyleResult, dragMultiplier int, dragBonus bool) {
	return stylize(t, text, emotion, true)
}

func stylize(t *config.Tables, text, emotion string, skipDrag bool) (StyleResult, int, bool) {
	style := t.Style(emotion)
	pr := t.PitchRateFor(emotion)

	dragMultiplier := 1
	dragBonus := false

	if style.ConsonantStrength != 1.0 {
		text = applyConsonantStrength(text, style.ConsonantStrength)
	}
	if style.VowelDrag {
		if skipDrag {
			dragMultiplier = style.VowelMultiplier
			dragBonus = hasDragBonus(text, t.DragBonusSuffixes)
		} else {
			text = applyVowelDrag(text, style.VowelMultiplier, t.DragBonusSuffixes)
		}
	}
	text = adjustTempo(text, style.Tempo)
	text = cleanTildeTokens(text)
	if style.Intonation {
		text = applyIntonation(text, emotion)
	}

	return StyleResult{Text: text, Pitch: pr.Pitch, Rate: pr.Rate}, dragMultiplier, dragBonus
}

// applyConsonantStrength biases articulation by casing the stop consonants:
// uppercase reads as harder attack to the synthesizer, lowercase as softer.
func applyConsonantStrength(text string, strength float64) string {
	switch {
	case strength > 1:
		return strings.NewReplacer("t", "T", "d", "D", "p", "P").Replace(text)
	case strength < 1:
		return strings.NewReplacer("T", "t", "D", "d", "P", "p").Replace(text)
	default:
		return text
	}
}

// applyVowelDrag stretches the first vowel cluster of every word so its
// leading vowel appears with total run-length multiplier. When the span ends
// in a drawn-out marker the last word gets two extra repeats for drama.
func applyVowelDrag(text string, multiplier int, bonusSuffixes []string) string {
	return dragText(text, multiplier, hasDragBonus(text, bonusSuffixes))
}

// ApplyDeferredDrag stretches vowels in an already styled span using the drag
// parameters a plan carried past the transform chain. Callers that could not
// drag in phoneme space apply the text form here instead.
func ApplyDeferredDrag(text string, multiplier int, bonus bool) string {
	return dragText(text, multiplier, bonus)
}

func dragText(text string, multiplier int, bonus bool) string {
	if multiplier <= 1 {
		return text
	}
	words := strings.Split(text, " ")
	for i, word := range words {
		m := multiplier
		if bonus && i == len(words)-1 {
			m += 2
		}
		words[i] = dragFirstVowelCluster(word, m)
	}
	return strings.Join(words, " ")
}

func dragFirstVowelCluster(word string, multiplier int) string {
	loc := vowelCluster.FindStringIndex(word)
	if loc == nil {
		return word
	}
	cluster := word[loc[0]:loc[1]]
	lead := []rune(cluster)[0]
	return word[:loc[0]] + strings.Repeat(string(lead), multiplier) + word[loc[1]:]
}

func hasDragBonus(text string, suffixes []string) bool {
	lower := strings.ToLower(strings.TrimRight(text, ".!? "))
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// adjustTempo re-paces the span according to the tempo setting. Ellipses are always folded into a single
// period first; they are known to degrade the downstream synthesizer.
func adjustTempo(text string, tempo config.Tempo) string {
	text = strings.ReplaceAll(text, "...", ".")

	switch tempo {
	case config.TempoSlow:
		text = commaRun.ReplaceAllString(text, "$1 ")
		text = periodRun.ReplaceAllString(text, ".  ")
		text = questionRun.ReplaceAllString(text, "?  ")
		text = exclamRun.ReplaceAllString(text, "!  ")
		return strings.TrimRight(text, " ")
	case config.TempoFast:
		text = multiSpaceRun.ReplaceAllString(text, " ")
		return strings.ReplaceAll(text, " - ", " ")
	default:
		return text
	}
}

// cleanTildeTokens rewrites "c~" as "cc" so a drawn-out tone survives
// synthesizers that do not understand tildes, then deletes any strays.
func cleanTildeTokens(text string) string {
	text = tildeLetter.ReplaceAllString(text, "$1$1")
	return strings.ReplaceAll(text, "~", "")
}

// applyIntonation rewrites the trailing punctuation of the whole span by
// emotion family. The marker replaces whatever ending the span had.
func applyIntonation(text, emotion string) string {
	emotion = strings.ToLower(strings.TrimSpace(emotion))
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	switch {
	case inFamily(emotion, "flirty", "playful", "curious", "curiosity", "inquisitive", "desire", "love"):
		return ensureEnding(text, "~?")
	case inFamily(emotion, "mad", "angry", "annoyance", "aggressive"):
		return ensureEnding(text, "!!")
	case inFamily(emotion, "confused", "confusion", "uncertain"):
		return ensureEnding(text, "??")
	case inFamily(emotion, "caring", "compassionate", "remorse", "sad", "regret", "neutral", "default"):
		return ensureEnding(text, ".")
	case inFamily(emotion, "amused", "amusement", "happy", "cheerful", "grateful", "gratitude", "optimism", "hopeful", "hype", "approval", "admiration"):
		return ensureEnding(text, "!")
	case inFamily(emotion, "fear", "anxious"):
		return ensureEnding(text, "?")
	default:
		return text
	}
}

func inFamily(emotion string, members ...string) bool {
	for _, m := range members {
		if emotion == m {
			return true
		}
	}
	return false
}

// ensureEnding replaces any existing trailing punctuation with marker.
func ensureEnding(text, marker string) string {
	return trailingEnd.ReplaceAllString(text, "") + marker
}
