package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

type IdentityRepository struct {
	mu      sync.RWMutex
	nextID  int64
	rows    map[int64]entity.AuthIdentity
	byEmail map[string]int64
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{rows: map[int64]entity.AuthIdentity{}, byEmail: map[string]int64{}}
}

func (r *IdentityRepository) Create(_ context.Context, a *entity.AuthIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[a.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	if a.Roles == nil {
		a.Roles = entity.DefaultRoles()
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	r.rows[a.ID] = *a
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *IdentityRepository) GetByID(_ context.Context, id int64) (*entity.AuthIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *IdentityRepository) GetByEmail(_ context.Context, email string) (*entity.AuthIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := r.rows[id]
	return &a, nil
}

func (r *IdentityRepository) First(_ context.Context) (*entity.AuthIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var first *entity.AuthIdentity
	for _, a := range r.rows {
		if first == nil || a.ID < first.ID {
			a := a
			first = &a
		}
	}
	if first == nil {
		return nil, repository.ErrNotFound
	}
	return first, nil
}

func (r *IdentityRepository) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	r.rows[id] = a
	return nil
}

func (r *IdentityRepository) SetVerified(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if a.VerifiedAt == nil {
		a.VerifiedAt = &at
		r.rows[id] = a
	}
	return nil
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)
