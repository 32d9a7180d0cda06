package voice

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/kitsunelabs/airi/internal/config"
	"github.com/kitsunelabs/airi/internal/phoneme"
	"github.com/kitsunelabs/airi/internal/textproc"
)

type fixedClassifier string

func (f fixedClassifier) Classify(ctx context.Context, text string) (string, error) {
	return string(f), nil
}

type failingSynth struct{}

func (failingSynth) Synthesize(ctx context.Context, req SpeechRequest) (Audio, error) {
	return Audio{}, errors.New("engine crashed")
}

func newTestDispatcher(t *testing.T, synth Synthesizer, playFn PlayFunc) (*Dispatcher, *Player) {
	t.Helper()
	store := config.NewTableStore(config.DefaultTables())
	pipeline := textproc.NewPipeline(store, fixedClassifier("happy"), nil, func(string) string { return "en" })
	player := NewPlayer(playFn, 8, nil)
	d := NewDispatcher(pipeline, synth, player, nil, nil, DispatcherConfig{
		ArtifactDir: t.TempDir(),
		Voice:       "p225",
	})
	return d, player
}

func TestDispatcherSpeaksStyledChunk(t *testing.T) {
	var mu sync.Mutex
	var played []PlaybackItem
	d, player := newTestDispatcher(t, NewMockSynthesizer(24000), func(ctx context.Context, item PlaybackItem) error {
		mu.Lock()
		played = append(played, item)
		mu.Unlock()
		return nil
	})

	plan, err := d.Dispatch(context.Background(), "wow")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if plan.Text != "woow!" {
		t.Fatalf("plan text = %q, want styled %q", plan.Text, "woow!")
	}
	player.Close()

	if len(played) != 1 {
		t.Fatalf("played %d items, want 1", len(played))
	}
	if played[0].Text != "woow!" {
		t.Fatalf("played text = %q, want %q", played[0].Text, "woow!")
	}
	if played[0].Duration <= 0 {
		t.Fatalf("played duration = %v, want positive", played[0].Duration)
	}
}

func TestDispatcherRemovesArtifactAfterPlayback(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	d, player := newTestDispatcher(t, NewMockSynthesizer(24000), func(ctx context.Context, item PlaybackItem) error {
		mu.Lock()
		paths = append(paths, item.Path)
		mu.Unlock()
		return nil
	})

	if _, err := d.Dispatch(context.Background(), "hello there"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	player.Close()

	if len(paths) != 1 {
		t.Fatalf("played %d items, want 1", len(paths))
	}
	if !strings.Contains(paths[0], "airi-chunk-") {
		t.Fatalf("artifact path = %q, want airi-chunk prefix", paths[0])
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Fatalf("artifact %s still exists after playback", paths[0])
	}
}

type deadBackend struct{}

func (deadBackend) Phonemize(ctx context.Context, word, locale string) (string, error) {
	return "", errors.New("no voice data")
}

func TestDispatcherTextFallbackKeepsVowelDrag(t *testing.T) {
	rec := &voiceRecorder{}
	store := config.NewTableStore(config.DefaultTables())
	pipeline := textproc.NewPipeline(store, fixedClassifier("flirty"), nil, func(string) string { return "en" })
	player := NewPlayer(func(ctx context.Context, item PlaybackItem) error { return nil }, 8, nil)
	phonemizer := phoneme.NewPhonemizer(store, deadBackend{})
	d := NewDispatcher(pipeline, rec, player, phonemizer, nil, DispatcherConfig{
		ArtifactDir: t.TempDir(),
		Voice:       "p225",
	})

	plan, err := d.Dispatch(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	player.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.reqs) != 1 {
		t.Fatalf("synthesized %d utterances, want 1", len(rec.reqs))
	}
	req := rec.reqs[0]
	if len(req.Phonemes) != 0 {
		t.Fatalf("phonemes = %v, want none after backend failure", req.Phonemes)
	}
	if req.Text != "heeeello theeeere~?" {
		t.Fatalf("synth text = %q, want dragged %q", req.Text, "heeeello theeeere~?")
	}
	if plan.Text != req.Text {
		t.Fatalf("plan text = %q, want the spoken text %q", plan.Text, req.Text)
	}
}

type voiceRecorder struct {
	mu   sync.Mutex
	reqs []SpeechRequest
}

func (r *voiceRecorder) Synthesize(ctx context.Context, req SpeechRequest) (Audio, error) {
	r.mu.Lock()
	r.reqs = append(r.reqs, req)
	r.mu.Unlock()
	return NewMockSynthesizer(24000).Synthesize(ctx, req)
}

func TestDispatcherPicksVoiceFromRoster(t *testing.T) {
	rec := &voiceRecorder{}
	store := config.NewTableStore(config.DefaultTables())
	pipeline := textproc.NewPipeline(store, fixedClassifier("neutral"), nil, func(string) string { return "en" })
	player := NewPlayer(func(ctx context.Context, item PlaybackItem) error { return nil }, 8, nil)
	d := NewDispatcher(pipeline, rec, player, nil, nil, DispatcherConfig{
		ArtifactDir: t.TempDir(),
		Voices:      []string{"p225", "p243"},
	})

	for i := 0; i < 5; i++ {
		if _, err := d.Dispatch(context.Background(), "hello there"); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}
	player.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.reqs) != 5 {
		t.Fatalf("synthesized %d utterances, want 5", len(rec.reqs))
	}
	for _, req := range rec.reqs {
		if req.Voice != "p225" && req.Voice != "p243" {
			t.Fatalf("voice %q not in roster", req.Voice)
		}
	}
}

func TestDispatcherSynthFailureDropsChunk(t *testing.T) {
	var mu sync.Mutex
	count := 0
	d, player := newTestDispatcher(t, failingSynth{}, func(ctx context.Context, item PlaybackItem) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	if _, err := d.Dispatch(context.Background(), "hello"); err == nil {
		t.Fatalf("Dispatch() error = nil, want synthesis failure")
	}
	player.Close()

	if count != 0 {
		t.Fatalf("played %d items, want 0 after synth failure", count)
	}
}

func TestDispatcherEmptyChunkIsSkipped(t *testing.T) {
	d, player := newTestDispatcher(t, NewMockSynthesizer(24000), func(ctx context.Context, item PlaybackItem) error {
		t.Errorf("unexpected playback for empty chunk")
		return nil
	})

	plan, err := d.Dispatch(context.Background(), "...")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !plan.Empty() {
		t.Fatalf("plan = %+v, want empty", plan)
	}
	player.Close()
}
