package repository

import (
	"context"

	"github.com/oksasatya/user-directory/internal/domain/entity"
)

// NotificationRepository defines persistence for notifications. Every read and
// mutation is scoped to an owner.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListByOwner returns the owner's notifications, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]entity.Notification, error)
	CountUnread(ctx context.Context, ownerID int64) (int, error)
	// MarkRead flags the notification matching both id and owner as read.
	// It returns nil, nil when nothing matches, whether the id is unknown or
	// owned by someone else.
	MarkRead(ctx context.Context, id, ownerID int64) (*entity.Notification, error)
}
