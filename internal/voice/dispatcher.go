package voice

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/kitsunelabs/airi/internal/audio"
	"github.com/kitsunelabs/airi/internal/observability"
	"github.com/kitsunelabs/airi/internal/phoneme"
	"github.com/kitsunelabs/airi/internal/textproc"
)

// Dispatcher carries one chunk from raw text to the playback queue: style
// it, synthesize it, persist the artifact, enqueue it. A chunk that fails
// any stage is dropped; the stream keeps flowing.
type Dispatcher struct {
	pipeline    *textproc.Pipeline
	synth       Synthesizer
	player      *Player
	phonemizer  *phoneme.Phonemizer
	metrics     *observability.Metrics
	artifactDir string
	voice       string
	voices      []string
	sampleRate  int
}

type DispatcherConfig struct {
	ArtifactDir string
	// Voice is the speaker used when Voices is empty.
	Voice string
	// Voices, when set, is the roster one speaker is picked from per
	// utterance.
	Voices     []string
	SampleRate int
}

func NewDispatcher(pipeline *textproc.Pipeline, synth Synthesizer, player *Player, phonemizer *phoneme.Phonemizer, metrics *observability.Metrics, cfg DispatcherConfig) *Dispatcher {
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = os.TempDir()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = audio.DefaultSampleRate
	}
	if phonemizer != nil {
		pipeline.UsePhonemes()
	}
	return &Dispatcher{
		pipeline:    pipeline,
		synth:       synth,
		player:      player,
		phonemizer:  phonemizer,
		metrics:     metrics,
		artifactDir: cfg.ArtifactDir,
		voice:       cfg.Voice,
		voices:      cfg.Voices,
		sampleRate:  cfg.SampleRate,
	}
}

// Dispatch processes one chunk end to end. The returned plan describes what
// was (or would have been) spoken; a nil error with an empty plan means the
// chunk cleaned down to nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, chunk string) (textproc.SpeechPlan, error) {
	start := time.Now()

	plan, err := d.pipeline.ProcessForSpeech(ctx, chunk)
	if err != nil {
		d.drop("pipeline")
		return plan, err
	}
	if plan.Empty() {
		d.drop("clean")
		return plan, nil
	}
	if d.metrics != nil {
		d.metrics.EmotionLabels.WithLabelValues(plan.Emotion).Inc()
	}

	req := SpeechRequest{
		Text:     plan.Text,
		Voice:    d.chooseVoice(),
		Language: plan.Language,
		Pitch:    plan.Pitch,
		Rate:     plan.Rate,
	}
	if d.phonemizer != nil {
		req.Phonemes = d.phonemize(ctx, plan)
		if req.Phonemes == nil && plan.DragMultiplier > 1 {
			// The drag was deferred for the phoneme layer; on a text
			// fallback it still has to land somewhere.
			plan.Text = textproc.ApplyDeferredDrag(plan.Text, plan.DragMultiplier, plan.DragBonus)
			req.Text = plan.Text
		}
	}

	out, err := d.synth.Synthesize(ctx, req)
	if err != nil {
		d.drop("synth")
		if d.metrics != nil {
			d.metrics.ProviderErrors.WithLabelValues("synth").Inc()
		}
		return plan, fmt.Errorf("synthesize chunk: %w", err)
	}

	path, err := d.writeArtifact(out.WAV)
	if err != nil {
		d.drop("artifact")
		return plan, err
	}

	item := PlaybackItem{
		Path:     path,
		Text:     plan.Text,
		Duration: audio.PCMDuration(pcmLen(out.WAV), out.SampleRate),
	}
	if !d.player.Enqueue(item) {
		d.drop("queue")
		audio.RemoveWithRetry(path, 1, 0)
		return plan, fmt.Errorf("playback queue rejected chunk")
	}

	if d.metrics != nil {
		d.metrics.ChunksProcessed.WithLabelValues("spoken").Inc()
		d.metrics.ObservePipelineLatency(time.Since(start))
	}
	return plan, nil
}

// phonemize converts the styled text and applies the deferred vowel drag.
// Any word the backend cannot convert sends the whole chunk back to the
// text path, since the synthesizer reads phoneme input all or nothing.
func (d *Dispatcher) phonemize(ctx context.Context, plan textproc.SpeechPlan) []string {
	words := d.phonemizer.Phonemize(ctx, plan.Text, plan.Language)
	if plan.DragMultiplier > 1 || plan.DragBonus {
		words = phoneme.DragWords(words, plan.DragMultiplier, plan.DragBonus)
	}
	var out []string
	for _, w := range words {
		if w.Literal {
			return nil
		}
		out = append(out, w.Phonemes...)
	}
	return out
}

func (d *Dispatcher) writeArtifact(wav []byte) (string, error) {
	f, err := os.CreateTemp(d.artifactDir, "airi-chunk-*.wav")
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	if _, err := f.Write(wav); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close artifact: %w", err)
	}
	return f.Name(), nil
}

// chooseVoice picks a speaker from the roster, one per utterance.
func (d *Dispatcher) chooseVoice() string {
	if len(d.voices) == 0 {
		return d.voice
	}
	return d.voices[rand.Intn(len(d.voices))]
}

func (d *Dispatcher) drop(stage string) {
	if d.metrics != nil {
		d.metrics.ChunksDropped.WithLabelValues(stage).Inc()
	}
}

// pcmLen assumes a 44-byte WAV preamble ahead of the samples.
func pcmLen(wav []byte) int {
	if len(wav) <= 44 {
		return 0
	}
	return len(wav) - 44
}
