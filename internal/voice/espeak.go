package voice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kitsunelabs/airi/internal/audio"
	"github.com/kitsunelabs/airi/internal/phoneme"
)

// espeak's neutral settings; pitch runs 0-99, speed is words per minute.
const (
	espeakBasePitch = 50
	espeakBaseSpeed = 175
)

// EspeakSynthesizer renders speech with the espeak-ng CLI. Pitch and rate
// multipliers from the style tables scale espeak's native units.
type EspeakSynthesizer struct {
	path       string
	sampleRate int
}

func NewEspeakSynthesizer(path string, sampleRate int) (*EspeakSynthesizer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		for _, candidate := range []string{"espeak-ng", "espeak"} {
			if p, err := exec.LookPath(candidate); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil, fmt.Errorf("voice: espeak binary not found on PATH")
	}
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	return &EspeakSynthesizer{path: path, sampleRate: sampleRate}, nil
}

func (s *EspeakSynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (Audio, error) {
	text := req.Text
	if len(req.Phonemes) > 0 {
		text = "[[" + strings.Join(req.Phonemes, " ") + "]]"
	}
	if strings.TrimSpace(text) == "" {
		return Audio{}, fmt.Errorf("voice: empty speech request")
	}

	args := []string{
		"--stdout",
		"-v", phoneme.Locale(req.Language),
		"-p", strconv.Itoa(scale(espeakBasePitch, req.Pitch, 0, 99)),
		"-s", strconv.Itoa(scale(espeakBaseSpeed, req.Rate, 80, 450)),
		text,
	}

	cmd := exec.CommandContext(ctx, s.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return Audio{}, fmt.Errorf("espeak synthesis failed: %s", detail)
	}
	if stdout.Len() == 0 {
		return Audio{}, fmt.Errorf("espeak produced no audio")
	}
	return Audio{WAV: stdout.Bytes(), SampleRate: s.sampleRate}, nil
}

// scale applies a multiplier to a base value and clamps to espeak's range.
func scale(base int, multiplier float64, lo, hi int) int {
	if multiplier <= 0 {
		multiplier = 1
	}
	v := int(float64(base) * multiplier)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
