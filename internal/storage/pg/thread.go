package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
)

func (s *Storage) CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.ThreadId, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return -1, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Verify category exists
	var slug domain.CategorySlug
	err = tx.QueryRowContext(ctx,
		"SELECT slug FROM categories WHERE slug = $1",
		creationData.Category,
	).Scan(&slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return -1, &internal_errors.ErrorWithStatusCode{
				Message:    "Category not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return -1, fmt.Errorf("failed to validate category: %w", err)
	}

	var attachments interface{}
	if creationData.Attachments != nil {
		attachments = *creationData.Attachments
	}

	var id domain.ThreadId
	err = tx.QueryRowContext(ctx, `
        INSERT INTO threads (title, body, category, newsletter_id, author_id, author_name, attachments)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `,
		creationData.Title,
		creationData.Body,
		creationData.Category,
		creationData.NewsletterId,
		creationData.Author.Id,
		creationData.Author.DisplayName,
		attachments,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return -1, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (s *Storage) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	var thread domain.Thread
	var attachments pq.StringArray
	err := s.db.QueryRowContext(ctx, `
        SELECT
            t.id, t.title, t.body, t.category, t.newsletter_id,
            t.author_id, t.author_name, t.attachments,
            (SELECT count(*) FROM replies r WHERE r.thread_id = t.id),
            t.is_locked, t.is_pinned, t.created_at, t.updated_at, t.last_activity_at
        FROM threads t
        WHERE t.id = $1
    `, id).Scan(
		&thread.Id, &thread.Title, &thread.Body, &thread.Category, &thread.NewsletterId,
		&thread.Author.Id, &thread.Author.DisplayName, &attachments,
		&thread.NumReplies,
		&thread.IsLocked, &thread.IsPinned, &thread.CreatedAt, &thread.UpdatedAt, &thread.LastActivity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, &internal_errors.ErrorWithStatusCode{
				Message:    "Thread not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}
	if attachments != nil {
		thread.Attachments = (*domain.Attachments)(&attachments)
	}

	replies, err := s.RepliesByThread(ctx, id)
	if err != nil {
		return domain.Thread{}, err
	}
	thread.Replies = replies

	return thread, nil
}

func (s *Storage) EditThread(ctx context.Context, id domain.ThreadId, title domain.ThreadTitle, body domain.Body) error {
	result, err := s.db.ExecContext(ctx, `
        UPDATE threads SET title = $1, body = $2, updated_at = now()
        WHERE id = $3
    `, title, body, id)
	if err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}
	return requireAffected(result, "Thread not found")
}

func (s *Storage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	// Replies, likes, notifications and reports cascade via foreign keys
	result, err := s.db.ExecContext(ctx, "DELETE FROM threads WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return requireAffected(result, "Thread not found")
}

func (s *Storage) ToggleLocked(ctx context.Context, id domain.ThreadId) (bool, error) {
	return s.toggleFlag(ctx, id, "is_locked")
}

func (s *Storage) TogglePinned(ctx context.Context, id domain.ThreadId) (bool, error) {
	return s.toggleFlag(ctx, id, "is_pinned")
}

func (s *Storage) toggleFlag(ctx context.Context, id domain.ThreadId, column string) (bool, error) {
	var newStatus bool
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
        UPDATE threads SET %s = NOT %s WHERE id = $1 RETURNING %s
    `, column, column, column), id).Scan(&newStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, &internal_errors.ErrorWithStatusCode{
				Message:    "Thread not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return false, fmt.Errorf("failed to toggle %s: %w", column, err)
	}
	return newStatus, nil
}

// ThreadAuthor returns the author id, for ownership checks.
func (s *Storage) ThreadAuthor(ctx context.Context, id domain.ThreadId) (domain.UserId, error) {
	var authorId domain.UserId
	err := s.db.QueryRowContext(ctx, "SELECT author_id FROM threads WHERE id = $1", id).Scan(&authorId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &internal_errors.ErrorWithStatusCode{
				Message:    "Thread not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return 0, fmt.Errorf("failed to fetch thread author: %w", err)
	}
	return authorId, nil
}

// ThreadState returns the lock flag and author, enough for write guards.
func (s *Storage) ThreadState(ctx context.Context, id domain.ThreadId) (authorId domain.UserId, locked bool, err error) {
	err = s.db.QueryRowContext(ctx, "SELECT author_id, is_locked FROM threads WHERE id = $1", id).Scan(&authorId, &locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, &internal_errors.ErrorWithStatusCode{
				Message:    "Thread not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return 0, false, fmt.Errorf("failed to fetch thread state: %w", err)
	}
	return authorId, locked, nil
}

func requireAffected(result sql.Result, notFoundMsg string) error {
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &internal_errors.ErrorWithStatusCode{
			Message:    notFoundMsg,
			StatusCode: http.StatusNotFound,
		}
	}
	return nil
}
