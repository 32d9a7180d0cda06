// Package memory keeps what the companion remembers: a short rolling window
// that feeds the prompt, and a transcript store that archives whole turns.
package memory

import (
	"context"
	"time"
)

// Speaker roles in a transcript turn.
const (
	RoleViewer = "viewer"
	RoleAiri   = "airi"
)

// TurnRecord archives one spoken or received turn.
type TurnRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Emotion   string    `json:"emotion,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves transcript turns.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	ClearSession(ctx context.Context, sessionID string) error
	Close() error
}
