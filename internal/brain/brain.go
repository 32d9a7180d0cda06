// Package brain streams replies from the language model behind the
// companion. The HTTP adapter speaks the ollama generate protocol; the mock
// keeps local runs and tests deterministic.
package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ApologyLine is spoken whenever the model cannot produce a reply. It goes
// through the normal styling pipeline like any other text.
const ApologyLine = "Sorry, something went wrong with my electronic brain >_<"

// GenerateRequest is one prompt turn for the model.
type GenerateRequest struct {
	Prompt string
	Model  string
}

// GenerateResponse is the final reply after streaming completes.
type GenerateResponse struct {
	Text string
}

// DeltaHandler receives streamed text fragments in arrival order. Returning
// an error aborts the stream.
type DeltaHandler func(delta string) error

// Adapter streams a model reply delta by delta.
type Adapter interface {
	StreamGenerate(ctx context.Context, req GenerateRequest, onDelta DeltaHandler) (GenerateResponse, error)
}

// Config controls adapter construction.
type Config struct {
	Mode           string
	URL            string
	Model          string
	ConnectTimeout time.Duration
}

// New builds an adapter for the configured mode. Auto probes the HTTP
// endpoint once and falls back to the mock when it is unreachable.
func New(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" && probeEndpoint(cfg.URL, cfg.ConnectTimeout) {
			return NewHTTPAdapter(cfg.URL, cfg.Model), nil
		}
		return NewMockAdapter(), nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("brain http url is required for http mode")
		}
		return NewHTTPAdapter(cfg.URL, cfg.Model), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain mode %q", cfg.Mode)
	}
}

// TranslateToEnglish asks the model for a plain translation with no
// commentary. The reply is consumed whole rather than streamed.
func TranslateToEnglish(ctx context.Context, a Adapter, text, language string) (string, error) {
	prompt := fmt.Sprintf("Translate the following %s text to English. Reply with the translation only.\n\n%s", language, text)
	res, err := a.StreamGenerate(ctx, GenerateRequest{Prompt: prompt}, nil)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return strings.TrimSpace(res.Text), nil
}
