package repository

import (
	"context"

	"mandado/internal/domain"
)

// NotificationRepository defines the persistence operations for notifications.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, n *domain.Notification) error

	// ListByRecipient retrieves notifications for a user, newest first.
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error)

	// MarkRead marks a notification as read. The update only applies
	// when the notification belongs to recipientID.
	MarkRead(ctx context.Context, id, recipientID string) error
}
