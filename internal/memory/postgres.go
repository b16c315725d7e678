package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresBackend stores whole user records as JSONB rows. It exists for
// deployments where the memory directory cannot live on local disk; the
// record semantics are identical to the file backend.
type postgresBackend struct {
	pool *pgxpool.Pool
}

func newPostgresBackend(ctx context.Context, databaseURL string) (*postgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &postgresBackend{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_memory (
			user_id TEXT PRIMARY KEY,
			record JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_user_memory_updated ON user_memory (updated_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (b *postgresBackend) load(ctx context.Context, userID string) (*UserRecord, error) {
	var data []byte
	err := b.pool.QueryRow(ctx,
		`SELECT record FROM user_memory WHERE user_id=$1`, userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errAbsent
		}
		return nil, fmt.Errorf("%w: %v", errAbsent, err)
	}

	var rec UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: corrupt record: %v", errAbsent, err)
	}
	rec.UserID = userID
	return &rec, nil
}

func (b *postgresBackend) save(ctx context.Context, rec *UserRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = b.pool.Exec(ctx,
		`INSERT INTO user_memory (user_id, record, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET record=EXCLUDED.record, updated_at=EXCLUDED.updated_at`,
		rec.UserID, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func (b *postgresBackend) users(ctx context.Context) ([]string, error) {
	rows, err := b.pool.Query(ctx, `SELECT user_id FROM user_memory ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return ids, nil
}

func (b *postgresBackend) size(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := b.pool.QueryRow(ctx,
		`SELECT length(record::text) FROM user_memory WHERE user_id=$1`, userID,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
