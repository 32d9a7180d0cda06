package memory

import (
	"context"
	"strings"
)

// NewStore picks the transcript backend from the database URL. With no URL the
// transcript lives in process and is gone on restart; with one it survives in
// postgres.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
