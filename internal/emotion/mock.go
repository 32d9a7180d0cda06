package emotion

import (
	"context"
	"strings"
)

// Mock returns a fixed label. Handy for local runs and deterministic tests.
type Mock struct {
	label string
}

func NewMock(label string) *Mock {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		label = "neutral"
	}
	return &Mock{label: label}
}

func (m *Mock) Classify(ctx context.Context, text string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return m.label, nil
}
