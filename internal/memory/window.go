package memory

import (
	"fmt"
	"strings"
	"sync"
)

// Window is the bounded rolling context injected into every prompt. A turn
// is one exchange, so the window holds at most maxTurns*2 lines.
type Window struct {
	mu       sync.Mutex
	maxTurns int
	lines    []string
}

func NewWindow(maxTurns int) *Window {
	if maxTurns <= 0 {
		maxTurns = 6
	}
	return &Window{maxTurns: maxTurns}
}

// Add appends one line and evicts the oldest when the window overflows.
func (w *Window) Add(speaker, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = append(w.lines, fmt.Sprintf("%s: %s", speaker, content))
	if max := w.maxTurns * 2; len(w.lines) > max {
		w.lines = w.lines[len(w.lines)-max:]
	}
}

// Lines returns a copy of the window, oldest first.
func (w *Window) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}

func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = nil
}
