package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	userFilePrefix = "user_"
	userFileSuffix = ".json"
)

// fileBackend keeps one human-readable JSON file per user. Every mutation
// rewrites the whole file; there is no append log and no partial-write
// protection.
type fileBackend struct {
	dir string
}

func newFileBackend(dir string) (*fileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir %s: %w", dir, err)
	}
	return &fileBackend{dir: dir}, nil
}

func (b *fileBackend) path(userID string) string {
	return filepath.Join(b.dir, userFilePrefix+userID+userFileSuffix)
}

func (b *fileBackend) load(_ context.Context, userID string) (*UserRecord, error) {
	data, err := os.ReadFile(b.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errAbsent
		}
		return nil, fmt.Errorf("%w: %v", errAbsent, err)
	}

	var rec UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupt state is treated as absent rather than surfaced.
		return nil, fmt.Errorf("%w: corrupt record: %v", errAbsent, err)
	}
	rec.UserID = userID
	return &rec, nil
}

func (b *fileBackend) save(_ context.Context, rec *UserRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := os.WriteFile(b.path(rec.UserID), data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func (b *fileBackend) users(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("scan memory dir: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, userFilePrefix) || !strings.HasSuffix(name, userFileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, userFilePrefix), userFileSuffix))
	}
	return ids, nil
}

func (b *fileBackend) size(_ context.Context, userID string) (int64, error) {
	info, err := os.Stat(b.path(userID))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (b *fileBackend) Close() error { return nil }
