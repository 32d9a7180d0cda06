package textproc

import (
	"context"
	"strings"

	"github.com/kitsunelabs/airi/internal/config"
)

// EmotionClassifier labels a span of text with a single emotion.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Translator rewrites a span into English when the source language is not
// in the supported set.
type Translator interface {
	TranslateToEnglish(ctx context.Context, text, language string) (string, error)
}

// SpeechPlan is a fully prepared span: the surface text the synthesizer
// should read plus the delivery parameters that go with it.
type SpeechPlan struct {
	Text     string
	Emotion  string
	Language string
	Pitch    float64
	Rate     float64

	// Set only in phoneme mode, where vowel drag moves from the text to
	// the phoneme representation.
	DragMultiplier int
	DragBonus      bool
}

// Empty reports whether the plan carries nothing speakable.
func (p SpeechPlan) Empty() bool { return p.Text == "" }

// Pipeline turns one raw chunk into a SpeechPlan. Language handling and
// emotion classification run on the raw text; the cleaner and the prosody
// chain run after, in that order.
type Pipeline struct {
	tables      *config.TableStore
	cleaner     *Cleaner
	classifier  EmotionClassifier
	translator  Translator
	detect      func(string) string
	phonemeMode bool
}

// NewPipeline wires a pipeline over a live table store. detect maps raw text
// to a language code and must never return an empty string.
func NewPipeline(tables *config.TableStore, classifier EmotionClassifier, translator Translator, detect func(string) string) *Pipeline {
	return &Pipeline{
		tables:     tables,
		cleaner:    NewCleaner(tables),
		classifier: classifier,
		translator: translator,
		detect:     detect,
	}
}

// UsePhonemes switches the pipeline into phoneme mode: plans carry drag
// parameters instead of text-level vowel stretching.
func (p *Pipeline) UsePhonemes() { p.phonemeMode = true }

// ProcessForSpeech prepares one chunk for the synthesizer. Classification
// failure falls back to neutral rather than failing the chunk; a chunk that
// cleans down to nothing yields an empty plan and no error.
func (p *Pipeline) ProcessForSpeech(ctx context.Context, raw string) (SpeechPlan, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SpeechPlan{}, nil
	}

	tables := p.tables.Current()

	language := p.detect(raw)
	if !tables.LanguageSupported(language) && p.translator != nil {
		translated, err := p.translator.TranslateToEnglish(ctx, raw, language)
		if err == nil && strings.TrimSpace(translated) != "" {
			raw = translated
		}
		language = "en"
	}

	emotion := "neutral"
	if p.classifier != nil {
		if label, err := p.classifier.Classify(ctx, raw); err == nil && label != "" {
			emotion = label
		}
	}

	cleaned := p.cleaner.Clean(raw)
	if cleaned == "" {
		return SpeechPlan{}, nil
	}

	plan := SpeechPlan{Emotion: emotion, Language: language}
	if p.phonemeMode {
		styled, mult, bonus := StylizeForPhonemes(tables, cleaned, emotion)
		plan.Text = styled.Text
		plan.Pitch = styled.Pitch
		plan.Rate = styled.Rate
		plan.DragMultiplier = mult
		plan.DragBonus = bonus
	} else {
		styled := Stylize(tables, cleaned, emotion)
		plan.Text = styled.Text
		plan.Pitch = styled.Pitch
		plan.Rate = styled.Rate
	}
	return plan, nil
}
