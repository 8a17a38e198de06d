package service

import (
	"context"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

type NotificationService interface {
	List(ctx context.Context, userId domain.UserId, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userId domain.UserId, id int64) error
	MarkAllRead(ctx context.Context, userId domain.UserId) error
}

type NotificationStorage interface {
	NotificationsByUser(ctx context.Context, userId domain.UserId, unreadOnly bool) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userId domain.UserId, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userId domain.UserId) error
}

type Notification struct {
	storage NotificationStorage
}

func NewNotification(storage NotificationStorage) NotificationService {
	return &Notification{storage}
}

func (n *Notification) List(ctx context.Context, userId domain.UserId, unreadOnly bool) ([]domain.Notification, error) {
	return n.storage.NotificationsByUser(ctx, userId, unreadOnly)
}

func (n *Notification) MarkRead(ctx context.Context, userId domain.UserId, id int64) error {
	return n.storage.MarkNotificationRead(ctx, userId, id)
}

func (n *Notification) MarkAllRead(ctx context.Context, userId domain.UserId) error {
	return n.storage.MarkAllNotificationsRead(ctx, userId)
}
