package voice

import (
	"context"
	"strings"

	"github.com/kitsunelabs/airi/internal/audio"
)

// MockSynthesizer produces silent audio sized to the text so playback
// pacing and ordering stay observable without a real engine.
type MockSynthesizer struct {
	sampleRate int
}

func NewMockSynthesizer(sampleRate int) *MockSynthesizer {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	return &MockSynthesizer{sampleRate: sampleRate}
}

func (s *MockSynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (Audio, error) {
	select {
	case <-ctx.Done():
		return Audio{}, ctx.Err()
	default:
	}

	// Roughly 60ms of silence per character, floor of 100ms.
	chars := len(strings.TrimSpace(req.Text))
	if chars == 0 {
		chars = 1
	}
	samples := s.sampleRate * 6 * chars / 100
	if min := s.sampleRate / 10; samples < min {
		samples = min
	}

	wav, err := audio.EncodeWAV(make([]byte, samples*2), s.sampleRate)
	if err != nil {
		return Audio{}, err
	}
	return Audio{WAV: wav, SampleRate: s.sampleRate}, nil
}
