package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

type NotificationRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]entity.Notification
	now    func() time.Time
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{rows: map[int64]entity.Notification{}, now: time.Now}
}

func (r *NotificationRepository) WithClock(now func() time.Time) *NotificationRepository {
	r.now = now
	return r
}

func (r *NotificationRepository) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.IsRead = false
	n.CreatedAt = r.now()
	r.rows[n.ID] = *n
	return nil
}

func (r *NotificationRepository) ListByOwner(_ context.Context, ownerID int64) ([]entity.Notification, error) {
	r.mu.RLock()
	out := make([]entity.Notification, 0)
	for _, n := range r.rows {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, ownerID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.rows {
		if n.OwnerID == ownerID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, ownerID int64) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok || n.OwnerID != ownerID {
		return nil, nil
	}
	n.IsRead = true
	r.rows[id] = n
	return &n, nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
