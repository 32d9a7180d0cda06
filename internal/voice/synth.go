// Package voice turns styled text into audio and plays it back in arrival
// order. Synthesis backends are pluggable; playback is a single FIFO worker
// so chunks never overlap or reorder.
package voice

import (
	"context"
	"fmt"
	"strings"
)

// SpeechRequest is one fully styled chunk ready for synthesis.
type SpeechRequest struct {
	Text     string
	Phonemes []string
	Voice    string
	Language string
	Pitch    float64
	Rate     float64
}

// Audio is a synthesized WAV payload.
type Audio struct {
	WAV        []byte
	SampleRate int
}

// Synthesizer renders one speech request to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) (Audio, error)
}

const (
	SynthModeEspeak = "espeak"
	SynthModeMock   = "mock"
)

// SynthConfig selects and parameterizes a synthesis backend.
type SynthConfig struct {
	Mode       string
	EspeakPath string
	SampleRate int
}

// NewSynthesizer builds a backend for the configured mode.
func NewSynthesizer(cfg SynthConfig) (Synthesizer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case SynthModeEspeak:
		return NewEspeakSynthesizer(cfg.EspeakPath, cfg.SampleRate)
	case SynthModeMock, "":
		return NewMockSynthesizer(cfg.SampleRate), nil
	default:
		return nil, fmt.Errorf("voice: unknown synth mode %q", cfg.Mode)
	}
}
