package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter produces deterministic local replies when no model endpoint
// is reachable.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) StreamGenerate(ctx context.Context, req GenerateRequest, onDelta DeltaHandler) (GenerateResponse, error) {
	select {
	case <-ctx.Done():
		return GenerateResponse{}, ctx.Err()
	default:
	}

	text := buildMockReply(req.Prompt)
	if onDelta != nil && text != "" {
		// Deltas arrive word by word so downstream chunking still gets
		// exercised in mock mode.
		for _, word := range strings.SplitAfter(text, " ") {
			if err := onDelta(word); err != nil {
				return GenerateResponse{}, err
			}
		}
	}
	return GenerateResponse{Text: text}, nil
}

func buildMockReply(prompt string) string {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" && !strings.HasSuffix(s, ":") {
			last = s
			break
		}
	}
	if last == "" {
		return "I'm here! Say something and I'll answer."
	}
	return fmt.Sprintf("Hehe, you said %q! Interesting choice, chat would love that.", last)
}
