package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DraftKV is a per-session key/value view over the drafts table. It
// satisfies draft.KV; a missing key reads back as (nil, nil).
type DraftKV struct {
	db        *sql.DB
	sessionId string
}

func (s *Storage) DraftKV(sessionId string) *DraftKV {
	return &DraftKV{db: s.db, sessionId: sessionId}
}

func (kv *DraftKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := kv.db.QueryRowContext(ctx, `
        SELECT value FROM drafts WHERE session_id = $1 AND key = $2
    `, kv.sessionId, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draft: %w", err)
	}
	return value, nil
}

func (kv *DraftKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := kv.db.ExecContext(ctx, `
        INSERT INTO drafts (session_id, key, value, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (session_id, key) DO UPDATE
        SET value = EXCLUDED.value, updated_at = now()
    `, kv.sessionId, key, value)
	if err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

func (kv *DraftKV) Delete(ctx context.Context, key string) error {
	_, err := kv.db.ExecContext(ctx, `
        DELETE FROM drafts WHERE session_id = $1 AND key = $2
    `, kv.sessionId, key)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
