package pg

import (
	"context"
	"fmt"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

func (s *Storage) CreateNotification(ctx context.Context, userId domain.UserId, threadId domain.ThreadId, replyId domain.ReplyId) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO notifications (user_id, thread_id, reply_id)
        VALUES ($1, $2, $3)
    `, userId, threadId, replyId)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *Storage) NotificationsByUser(ctx context.Context, userId domain.UserId, unreadOnly bool) ([]domain.Notification, error) {
	query := `
        SELECT id, user_id, thread_id, reply_id, is_read, created_at
        FROM notifications
        WHERE user_id = $1
    `
	if unreadOnly {
		query += " AND NOT is_read"
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := s.db.QueryContext(ctx, query, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.Id, &n.UserId, &n.ThreadId, &n.ReplyId, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead is scoped by user so nobody can mark somebody
// else's notifications.
func (s *Storage) MarkNotificationRead(ctx context.Context, userId domain.UserId, id int64) error {
	result, err := s.db.ExecContext(ctx, `
        UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
    `, id, userId)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return requireAffected(result, "Notification not found")
}

func (s *Storage) MarkAllNotificationsRead(ctx context.Context, userId domain.UserId) error {
	_, err := s.db.ExecContext(ctx, `
        UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read
    `, userId)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
