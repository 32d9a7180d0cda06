package phoneme

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// EspeakBackend shells out to espeak-ng for grapheme-to-phoneme conversion.
type EspeakBackend struct {
	path string
}

// NewEspeakBackend resolves the espeak binary. An empty path means "look it
// up on PATH under the usual names".
func NewEspeakBackend(path string) (*EspeakBackend, error) {
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
		return nil, fmt.Errorf("phoneme: espeak binary not found on PATH")
	}
	return &EspeakBackend{path: path}, nil
}

func (b *EspeakBackend) Phonemize(ctx context.Context, word, locale string) (string, error) {
	cmd := exec.CommandContext(ctx, b.path, "-q", "-x", "-v", locale, word)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("espeak failed for %q: %s", word, detail)
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", fmt.Errorf("espeak produced no phonemes for %q", word)
	}
	return out, nil
}
