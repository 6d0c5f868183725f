package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, title, message, is_read, created_at, user_id`

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	n.IsRead = false
	row := r.db.QueryRow(ctx, `
		INSERT INTO notification (title, message, is_read, created_at, user_id)
		VALUES ($1, $2, FALSE, now(), $3)
		RETURNING id, created_at
	`, n.Title, n.Message, n.OwnerID)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByOwner(ctx context.Context, ownerID int64) ([]entity.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notification
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := []entity.Notification{}
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt, &n.OwnerID); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, ownerID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(id) FROM notification WHERE user_id = $1 AND is_read = FALSE
	`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead matches id and owner in one statement so a foreign id can never
// be flipped, whatever the caller checked beforehand.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, ownerID int64) (*entity.Notification, error) {
	var n entity.Notification
	err := r.db.QueryRow(ctx, `
		UPDATE notification
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING `+notificationColumns+`
	`, id, ownerID).Scan(&n.ID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt, &n.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &n, nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
