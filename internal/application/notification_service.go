package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	repo "github.com/oksasatya/user-directory/internal/domain/repository"
	"github.com/oksasatya/user-directory/pkg/validation"
)

type NotificationService struct {
	Repo   repo.NotificationRepository
	Logger *logrus.Logger
}

func NewNotificationService(r repo.NotificationRepository, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Repo: r, Logger: logger}
}

type notificationInput struct {
	Title   string `json:"title" validate:"required,max=150"`
	Message string `json:"message" validate:"required"`
}

// Create stores a notification for ownerID. Titles are limited to 150
// characters to match the stored column.
func (s *NotificationService) Create(ctx context.Context, ownerID int64, title, message string) (*entity.Notification, error) {
	if errs := validation.Struct(notificationInput{Title: title, Message: message}); len(errs) > 0 {
		return nil, &FormError{MessageID: "form.invalid", Fields: errs}
	}
	n := &entity.Notification{OwnerID: ownerID, Title: title, Message: message}
	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{"notification_id": n.ID, "owner_id": ownerID}).Debug("notification created")
	return n, nil
}

// Inbox is an owner's notifications, newest first, plus the unread count.
type Inbox struct {
	Items  []entity.Notification
	Unread int
}

func (s *NotificationService) Inbox(ctx context.Context, ownerID int64) (*Inbox, error) {
	items, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	return &Inbox{Items: items, Unread: unread}, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, ownerID int64) (int, error) {
	n, err := s.Repo.CountUnread(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead flags a notification as read. Unknown ids and ids owned by
// someone else both yield ErrNotificationNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, id, ownerID int64) (*entity.Notification, error) {
	n, err := s.Repo.MarkRead(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}
