package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

func createAt(t *testing.T, repo *ProfileRepository, name, email string, at time.Time) *entity.UserProfile {
	t.Helper()
	p := &entity.UserProfile{Name: name, Email: email, CreatedAt: at}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func names(items []entity.UserProfile) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}

func TestProfileRepository_SearchMatchesNameOrEmail(t *testing.T) {
	repo := NewProfileRepository()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	createAt(t, repo, "John Smith", "js@example.com", base)
	createAt(t, repo, "Alice", "johnny@example.com", base.Add(time.Hour))
	createAt(t, repo, "Bob", "bob@example.com", base.Add(2*time.Hour))

	items, total, err := repo.List(context.Background(), repository.ProfileFilter{Search: "john"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"Alice", "John Smith"}, names(items))
}

func TestProfileRepository_SameDayRangeIsInclusive(t *testing.T) {
	repo := NewProfileRepository()
	createAt(t, repo, "inside", "in@example.com", time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC))
	createAt(t, repo, "after", "out@example.com", time.Date(2024, 6, 2, 0, 0, 1, 0, time.UTC))
	createAt(t, repo, "before", "early@example.com", time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC))

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)
	items, total, err := repo.List(context.Background(), repository.ProfileFilter{DateFrom: &from, DateTo: &to}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"inside"}, names(items))
}

func TestProfileRepository_SearchAndRangeIntersect(t *testing.T) {
	repo := NewProfileRepository()
	createAt(t, repo, "John Early", "a@example.com", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	createAt(t, repo, "John Late", "b@example.com", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	createAt(t, repo, "Mary Late", "c@example.com", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	items, _, err := repo.List(context.Background(), repository.ProfileFilter{Search: "John", DateFrom: &from}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"John Late"}, names(items))
}

func TestProfileRepository_PaginatesNewestFirst(t *testing.T) {
	repo := NewProfileRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		createAt(t, repo, fmt.Sprintf("user-%02d", i), fmt.Sprintf("u%d@example.com", i), base.Add(time.Duration(i)*time.Minute))
	}

	items, total, err := repo.List(context.Background(), repository.ProfileFilter{}, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Equal(t, []string{"user-04", "user-03", "user-02", "user-01", "user-00"}, names(items))

	items, _, err = repo.List(context.Background(), repository.ProfileFilter{}, 40, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProfileRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(48 * time.Hour)
	repo := NewProfileRepository().WithClock(func() time.Time { return later })

	p := createAt(t, repo, "Ann", "ann@example.com", created)
	p.Name = "Anne"
	p.CreatedAt = time.Time{}
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anne", got.Name)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestProfileRepository_MissingRows(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()

	_, err := repo.GetByID(ctx, 7)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &entity.UserProfile{ID: 7}), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 7), repository.ErrNotFound)
}
