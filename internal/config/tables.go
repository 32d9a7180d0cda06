package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tempo controls the pacing adjustment applied by the prosody chain.
type Tempo string

const (
	TempoNormal Tempo = "normal"
	TempoSlow   Tempo = "slow"
	TempoFast   Tempo = "fast"
)

// StyleProfile bundles the prosody toggles for one emotion label. Profiles are
// immutable once loaded; lookups always resolve (unknown labels alias neutral).
type StyleProfile struct {
	Tempo             Tempo   `yaml:"tempo"`
	VowelDrag         bool    `yaml:"vowel_drag"`
	VowelMultiplier   int     `yaml:"vowel_multiplier"`
	ConsonantStrength float64 `yaml:"consonant_strength"`
	Intonation        bool    `yaml:"intonation"`
}

// PitchRate holds the synthesizer multipliers for one emotion label, both
// centered at 1.0.
type PitchRate struct {
	Pitch float64 `yaml:"pitch"`
	Rate  float64 `yaml:"rate"`
}

// Tables is one immutable snapshot of every static persona table. Hot reload
// replaces the whole snapshot; nothing mutates a Tables after construction.
type Tables struct {
	PersonaPrompt      string   `yaml:"persona_prompt"`
	StreamerName       string   `yaml:"streamer_name"`
	Voices             []string `yaml:"voices"`
	SupportedLanguages []string `yaml:"supported_languages"`
	MaxMemoryTurns     int      `yaml:"max_memory_turns"`

	Interjections      []string `yaml:"interjections"`
	InterjectionChance float64  `yaml:"interjection_chance"`

	Styles            map[string]StyleProfile      `yaml:"styles"`
	PitchRates        map[string]PitchRate         `yaml:"pitch_rates"`
	EmojiSpeech       map[string]string            `yaml:"emoji_speech"`
	Actions           map[string]string            `yaml:"actions"`
	PhoneticOverrides map[string]map[string]string `yaml:"phonetic_overrides"`

	Slang             []string `yaml:"slang"`
	DragBonusSuffixes []string `yaml:"drag_bonus_suffixes"`
}

// Style resolves the profile for an emotion label, case-insensitive, falling
// back to the neutral profile for unknown labels. It never fails.
func (t *Tables) Style(emotion string) StyleProfile {
	key := strings.ToLower(strings.TrimSpace(emotion))
	if p, ok := t.Styles[key]; ok {
		return normalizeProfile(p)
	}
	if p, ok := t.Styles["neutral"]; ok {
		return normalizeProfile(p)
	}
	return neutralStyle
}

// PitchRateFor resolves the pitch/rate multipliers for an emotion label,
// falling back to (1.0, 1.0) for unknown labels.
func (t *Tables) PitchRateFor(emotion string) PitchRate {
	key := strings.ToLower(strings.TrimSpace(emotion))
	if pr, ok := t.PitchRates[key]; ok {
		return pr
	}
	return PitchRate{Pitch: 1.0, Rate: 1.0}
}

// Action resolves an *action* marker (e.g. "wink") to its speakable phrase.
// Unknown actions resolve to the empty string, deleting the marker.
func (t *Tables) Action(name string) string {
	return t.Actions[strings.ToLower(strings.TrimSpace(name))]
}

// PhoneticOverride looks up a hand-authored pronunciation for word in lang.
func (t *Tables) PhoneticOverride(lang, word string) (string, bool) {
	m, ok := t.PhoneticOverrides[lang]
	if !ok {
		return "", false
	}
	phon, ok := m[strings.ToLower(word)]
	return phon, ok
}

// LanguageSupported reports whether the pipeline can phonemize lang directly.
func (t *Tables) LanguageSupported(lang string) bool {
	for _, l := range t.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

var neutralStyle = StyleProfile{
	Tempo:             TempoNormal,
	VowelDrag:         false,
	VowelMultiplier:   1,
	ConsonantStrength: 1.0,
	Intonation:        false,
}

func normalizeProfile(p StyleProfile) StyleProfile {
	if p.Tempo == "" {
		p.Tempo = TempoNormal
	}
	if p.VowelMultiplier < 1 {
		p.VowelMultiplier = 1
	}
	if p.ConsonantStrength <= 0 {
		p.ConsonantStrength = 1.0
	}
	return p
}

// LoadTables reads the persona YAML at path and merges it over the compiled-in
// defaults. An empty path returns the defaults unchanged.
func LoadTables(path string) (*Tables, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTables(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persona tables: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := LoadTablesFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("persona tables: parse %q: %w", path, err)
	}
	return t, nil
}

// LoadTablesFromReader decodes a persona YAML from r over the defaults.
// Useful in tests where tables are constructed from string literals.
func LoadTablesFromReader(r io.Reader) (*Tables, error) {
	var override Tables
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&override); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return mergeTables(DefaultTables(), &override), nil
}

// mergeTables fills every zero-valued field of override from base so that a
// partial persona file never loses a table. Map-shaped tables replace
// wholesale when present; a missing map keeps the default.
func mergeTables(base, override *Tables) *Tables {
	out := *base
	if strings.TrimSpace(override.PersonaPrompt) != "" {
		out.PersonaPrompt = override.PersonaPrompt
	}
	if strings.TrimSpace(override.StreamerName) != "" {
		out.StreamerName = override.StreamerName
	}
	if len(override.Voices) > 0 {
		out.Voices = override.Voices
	}
	if len(override.SupportedLanguages) > 0 {
		out.SupportedLanguages = override.SupportedLanguages
	}
	if override.MaxMemoryTurns > 0 {
		out.MaxMemoryTurns = override.MaxMemoryTurns
	}
	if len(override.Interjections) > 0 {
		out.Interjections = override.Interjections
	}
	if override.InterjectionChance > 0 {
		out.InterjectionChance = override.InterjectionChance
	}
	if len(override.Styles) > 0 {
		out.Styles = lowerKeyedStyles(override.Styles)
	}
	if len(override.PitchRates) > 0 {
		out.PitchRates = lowerKeyedPitchRates(override.PitchRates)
	}
	if len(override.EmojiSpeech) > 0 {
		out.EmojiSpeech = override.EmojiSpeech
	}
	if len(override.Actions) > 0 {
		out.Actions = lowerKeyed(override.Actions)
	}
	if len(override.PhoneticOverrides) > 0 {
		out.PhoneticOverrides = override.PhoneticOverrides
	}
	if len(override.Slang) > 0 {
		out.Slang = override.Slang
	}
	if len(override.DragBonusSuffixes) > 0 {
		out.DragBonusSuffixes = override.DragBonusSuffixes
	}
	// The neutral entry is the guaranteed fallback for every style lookup.
	if _, ok := out.Styles["neutral"]; !ok {
		out.Styles["neutral"] = neutralStyle
	}
	return &out
}

func lowerKeyed(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func lowerKeyedStyles(m map[string]StyleProfile) map[string]StyleProfile {
	out := make(map[string]StyleProfile, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func lowerKeyedPitchRates(m map[string]PitchRate) map[string]PitchRate {
	out := make(map[string]PitchRate, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
