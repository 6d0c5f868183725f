package repository

import (
	"context"
	"time"

	"github.com/oksasatya/user-directory/internal/domain/entity"
)

// IdentityRepository defines persistence for login identities.
type IdentityRepository interface {
	Create(ctx context.Context, a *entity.AuthIdentity) error
	GetByID(ctx context.Context, id int64) (*entity.AuthIdentity, error)
	GetByEmail(ctx context.Context, email string) (*entity.AuthIdentity, error)
	// First returns the identity with the lowest id.
	First(ctx context.Context) (*entity.AuthIdentity, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	SetVerified(ctx context.Context, id int64, at time.Time) error
}
