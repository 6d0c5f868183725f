package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

type ProfileRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]entity.UserProfile
	now    func() time.Time
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{rows: map[int64]entity.UserProfile{}, now: time.Now}
}

// WithClock replaces the time source, for tests that need fixed timestamps.
func (r *ProfileRepository) WithClock(now func() time.Time) *ProfileRepository {
	r.now = now
	return r
}

func (r *ProfileRepository) Create(_ context.Context, p *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.Touch(r.now())
	r.rows[p.ID] = *p
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id int64) (*entity.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) Update(_ context.Context, p *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.rows[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = r.now()
	r.rows[p.ID] = *p
	return nil
}

func (r *ProfileRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *ProfileRepository) List(_ context.Context, f repository.ProfileFilter, offset, limit int) ([]entity.UserProfile, int, error) {
	r.mu.RLock()
	matched := make([]entity.UserProfile, 0, len(r.rows))
	for _, p := range r.rows {
		if f.Matches(&p) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, offset, limit), len(matched), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
