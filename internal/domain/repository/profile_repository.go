package repository

import (
	"context"
	"time"

	"github.com/oksasatya/user-directory/internal/domain/entity"
)

// ProfileFilter narrows a profile listing. Zero values mean "no filter"; all
// set fields combine with AND.
type ProfileFilter struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Matches reports whether p passes the filter. Stores that cannot push the
// filter down to a query engine use it directly.
func (f ProfileFilter) Matches(p *entity.UserProfile) bool {
	if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.Email, f.Search) {
		return false
	}
	if f.DateFrom != nil && p.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && p.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

// ProfileRepository defines persistence for user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.UserProfile) error
	GetByID(ctx context.Context, id int64) (*entity.UserProfile, error)
	Update(ctx context.Context, p *entity.UserProfile) error
	Delete(ctx context.Context, id int64) error
	// List returns one page sorted by created_at descending plus the total
	// number of matches.
	List(ctx context.Context, f ProfileFilter, offset, limit int) ([]entity.UserProfile, int, error)
}

// ProfileIndex is an optional search backend kept in sync with the store.
type ProfileIndex interface {
	Index(ctx context.Context, p *entity.UserProfile) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, f ProfileFilter, offset, limit int) ([]entity.UserProfile, int, error)
}
