package pg

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

// LikeThread records a like. A duplicate insert hits the primary key and is
// treated as "already liked", not an error; the bool reports whether a new
// like was recorded.
func (s *Storage) LikeThread(ctx context.Context, threadId domain.ThreadId, userId domain.UserId) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
        INSERT INTO thread_likes (thread_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (thread_id, user_id) DO NOTHING
    `, threadId, userId)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

func (s *Storage) UnlikeThread(ctx context.Context, threadId domain.ThreadId, userId domain.UserId) error {
	_, err := s.db.ExecContext(ctx, `
        DELETE FROM thread_likes WHERE thread_id = $1 AND user_id = $2
    `, threadId, userId)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// LikeCountsByThread returns like counts in one batched call. Callers on
// read paths may swallow a failure here and render zero counts; likes are
// auxiliary data.
func (s *Storage) LikeCountsByThread(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
	counts := make(map[domain.ThreadId]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}
	if len(ids) == 0 {
		return counts, nil
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT thread_id, count(*)
        FROM thread_likes
        WHERE thread_id = ANY($1)
        GROUP BY thread_id
    `, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch like counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id domain.ThreadId
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan like count: %w", err)
		}
		counts[id] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return counts, nil
}
