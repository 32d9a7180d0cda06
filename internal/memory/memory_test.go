package memory

import (
	"context"
	"fmt"
	"testing"
)

func TestWindowEvictsOldestBeyondCap(t *testing.T) {
	w := NewWindow(2)
	for i := 0; i < 6; i++ {
		w.Add("Viewer", fmt.Sprintf("message %d", i))
	}
	lines := w.Lines()
	if len(lines) != 4 {
		t.Fatalf("window lines = %d, want 4", len(lines))
	}
	if lines[0] != "Viewer: message 2" {
		t.Fatalf("oldest line = %q, want %q", lines[0], "Viewer: message 2")
	}
	if lines[3] != "Viewer: message 5" {
		t.Fatalf("newest line = %q, want %q", lines[3], "Viewer: message 5")
	}
}

func TestWindowIgnoresEmptyContent(t *testing.T) {
	w := NewWindow(3)
	w.Add("Viewer", "   ")
	if got := len(w.Lines()); got != 0 {
		t.Fatalf("window lines = %d, want 0", got)
	}
}

func TestWindowClear(t *testing.T) {
	w := NewWindow(3)
	w.Add("Airi", "hello chat")
	w.Clear()
	if got := len(w.Lines()); got != 0 {
		t.Fatalf("window lines after Clear = %d, want 0", got)
	}
}

func TestInMemoryStoreRecentTurns(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		err := s.SaveTurn(ctx, TurnRecord{
			SessionID: "stream-1",
			Role:      RoleViewer,
			Content:   fmt.Sprintf("chat %d", i),
		})
		if err != nil {
			t.Fatalf("SaveTurn() error = %v", err)
		}
	}

	turns, err := s.RecentTurns(ctx, "stream-1", 3)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("RecentTurns() = %d turns, want 3", len(turns))
	}
	if turns[0].Content != "chat 2" || turns[2].Content != "chat 4" {
		t.Fatalf("turns out of order: %q .. %q", turns[0].Content, turns[2].Content)
	}
	if turns[0].ID == "" || turns[0].CreatedAt.IsZero() {
		t.Fatalf("SaveTurn() did not fill id/created_at: %+v", turns[0])
	}
}

func TestInMemoryStoreSessionsAreIsolated(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	s.SaveTurn(ctx, TurnRecord{SessionID: "a", Role: RoleViewer, Content: "hi"})
	s.SaveTurn(ctx, TurnRecord{SessionID: "b", Role: RoleAiri, Content: "hello"})

	turns, err := s.RecentTurns(ctx, "a", 0)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "hi" {
		t.Fatalf("session a turns = %+v, want only its own", turns)
	}
}

func TestInMemoryStoreClearSession(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	s.SaveTurn(ctx, TurnRecord{SessionID: "a", Role: RoleViewer, Content: "hi"})
	if err := s.ClearSession(ctx, "a"); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}
	turns, err := s.RecentTurns(ctx, "a", 0)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("turns after clear = %d, want 0", len(turns))
	}
}
