package memory

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when a database URL is configured,
// otherwise the file-per-user store rooted at dir.
func NewStore(ctx context.Context, databaseURL, dir string) (*Store, error) {
	if strings.TrimSpace(databaseURL) != "" {
		b, err := newPostgresBackend(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return newStore(b), nil
	}

	b, err := newFileBackend(dir)
	if err != nil {
		return nil, err
	}
	return newStore(b), nil
}
