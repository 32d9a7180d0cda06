// Package emotion labels text spans with the emotion the styling tables key
// on. The classifier is a best-effort advisor: callers treat any failure as
// the neutral label and keep speaking.
package emotion

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Classifier labels a span of text with a single lowercase emotion label.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

const (
	ModeAuto = "auto"
	ModeHTTP = "http"
	ModeMock = "mock"
)

// Config selects and parameterizes a classifier backend.
type Config struct {
	Mode    string
	URL     string
	Timeout time.Duration
}

// New builds a classifier for the configured mode. Auto picks the HTTP
// backend when a URL is configured and the mock otherwise.
func New(cfg Config) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case ModeAuto:
		if strings.TrimSpace(cfg.URL) == "" {
			return NewMock("neutral"), nil
		}
		return NewHTTPClassifier(cfg.URL, cfg.Timeout), nil
	case ModeHTTP:
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, fmt.Errorf("emotion: http mode requires a url")
		}
		return NewHTTPClassifier(cfg.URL, cfg.Timeout), nil
	case ModeMock, "":
		return NewMock("neutral"), nil
	default:
		return nil, fmt.Errorf("emotion: unknown mode %q", cfg.Mode)
	}
}
