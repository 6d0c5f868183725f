package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, name, email, age, avatar, created_at, updated_at`

func scanProfile(row pgx.Row) (*entity.UserProfile, error) {
	var (
		p         entity.UserProfile
		avatar    *string
		updatedAt *time.Time
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Age, &avatar, &p.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if avatar != nil {
		p.Avatar = *avatar
	}
	if updatedAt != nil {
		p.UpdatedAt = *updatedAt
	}
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.UserProfile) error {
	p.Touch(time.Now())
	row := r.db.QueryRow(ctx, `
		INSERT INTO "user" (name, email, age, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Name, p.Email, p.Age, nullable(p.Avatar), p.CreatedAt, p.UpdatedAt)
	if err := row.Scan(&p.ID); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*entity.UserProfile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM "user"
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.UserProfile) error {
	p.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, `
		UPDATE "user"
		SET name = $1, email = $2, age = $3, avatar = $4, updated_at = $5
		WHERE id = $6
	`, p.Name, p.Email, p.Age, nullable(p.Avatar), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM "user" WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) List(ctx context.Context, f repository.ProfileFilter, offset, limit int) ([]entity.UserProfile, int, error) {
	countSQL, pageSQL, args := profileListQuery(f, offset, limit)

	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	if total == 0 {
		return []entity.UserProfile{}, 0, nil
	}

	rows, err := r.db.Query(ctx, pageSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := make([]entity.UserProfile, 0, limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
