package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

const uniqueViolation = "23505"

type IdentityRepository struct {
	db DBTX
}

func NewIdentityRepository(db DBTX) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = `id, name, email, password_hash, roles, verified_at, created_at`

func scanIdentity(row pgx.Row) (*entity.AuthIdentity, error) {
	a := &entity.AuthIdentity{}
	var roles []string
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &roles, &a.VerifiedAt, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	a.Roles = entity.RolesFromStrings(roles)
	return a, nil
}

func (r *IdentityRepository) Create(ctx context.Context, a *entity.AuthIdentity) error {
	if a.Roles == nil {
		a.Roles = entity.DefaultRoles()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO auth_identity (name, email, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, created_at
	`, a.Name, a.Email, a.PasswordHash, a.Roles.Strings())

	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id int64) (*entity.AuthIdentity, error) {
	return scanIdentity(r.db.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM auth_identity
		WHERE id = $1
	`, id))
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*entity.AuthIdentity, error) {
	return scanIdentity(r.db.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM auth_identity
		WHERE email = $1
	`, email))
}

func (r *IdentityRepository) First(ctx context.Context) (*entity.AuthIdentity, error) {
	return scanIdentity(r.db.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM auth_identity
		ORDER BY id
		LIMIT 1
	`))
}

func (r *IdentityRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.Exec(ctx, `UPDATE auth_identity SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *IdentityRepository) SetVerified(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.Exec(ctx, `
		UPDATE auth_identity SET verified_at = COALESCE(verified_at, $1) WHERE id = $2
	`, at, id)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)
