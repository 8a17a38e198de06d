package pg

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

// CreateReply inserts the reply and bumps the thread's last_activity_at in
// one transaction. Lock checks are the service's job.
func (s *Storage) CreateReply(ctx context.Context, creationData domain.ReplyCreationData) (domain.Reply, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var reply domain.Reply
	err = tx.QueryRowContext(ctx, `
        INSERT INTO replies (thread_id, author_id, author_name, body)
        VALUES ($1, $2, $3, $4)
        RETURNING id, thread_id, author_id, author_name, body, created_at
    `,
		creationData.Thread, creationData.Author.Id, creationData.Author.DisplayName, creationData.Body,
	).Scan(&reply.Id, &reply.ThreadId, &reply.Author.Id, &reply.Author.DisplayName, &reply.Body, &reply.CreatedAt)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to insert reply: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE threads SET last_activity_at = $1 WHERE id = $2
    `, reply.CreatedAt, creationData.Thread)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to bump thread activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Reply{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return reply, nil
}

// RepliesByThread returns a thread's replies ordered by creation time asc.
func (s *Storage) RepliesByThread(ctx context.Context, threadId domain.ThreadId) ([]*domain.Reply, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, thread_id, author_id, author_name, body, created_at
        FROM replies
        WHERE thread_id = $1
        ORDER BY created_at, id
    `, threadId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch replies: %w", err)
	}
	defer rows.Close()

	var replies []*domain.Reply
	for rows.Next() {
		var r domain.Reply
		if err := rows.Scan(&r.Id, &r.ThreadId, &r.Author.Id, &r.Author.DisplayName, &r.Body, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		replies = append(replies, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return replies, nil
}

// ReplyCountsByThread returns reply counts for the given thread ids in one
// batched call. Threads with no replies are present with count zero.
func (s *Storage) ReplyCountsByThread(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
	counts := make(map[domain.ThreadId]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}
	if len(ids) == 0 {
		return counts, nil
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT thread_id, count(*)
        FROM replies
        WHERE thread_id = ANY($1)
        GROUP BY thread_id
    `, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reply counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id domain.ThreadId
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reply count: %w", err)
		}
		counts[id] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return counts, nil
}

// ReplyAuthor returns the author id, for ownership checks.
func (s *Storage) ReplyAuthor(ctx context.Context, id domain.ReplyId) (domain.UserId, error) {
	var authorId domain.UserId
	err := s.db.QueryRowContext(ctx, "SELECT author_id FROM replies WHERE id = $1", id).Scan(&authorId)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch reply author: %w", err)
	}
	return authorId, nil
}

func (s *Storage) DeleteReply(ctx context.Context, id domain.ReplyId) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM replies WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}
	return requireAffected(result, "Reply not found")
}
