package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-directory/internal/domain/entity"
)

func seedNotification(t *testing.T, repo *NotificationRepository, owner int64, title string) *entity.Notification {
	t.Helper()
	n := &entity.Notification{OwnerID: owner, Title: title, Message: "m"}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestNotificationRepository_ListIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	mine := seedNotification(t, repo, 1, "mine")
	theirs := seedNotification(t, repo, 2, "theirs")

	list, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = repo.ListByOwner(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, theirs.ID, list[0].ID)
}

func TestNotificationRepository_ListNewestFirstWithStableTies(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := fixed
	repo := NewNotificationRepository().WithClock(func() time.Time { return clock })

	a := seedNotification(t, repo, 1, "a")
	b := seedNotification(t, repo, 1, "b")
	clock = fixed.Add(time.Minute)
	c := seedNotification(t, repo, 1, "c")

	list, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestNotificationRepository_MarkReadForeignOwnerIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()
	n := seedNotification(t, repo, 2, "theirs")

	got, err := repo.MarkRead(ctx, n.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	list, _ := repo.ListByOwner(ctx, 2)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
}

func TestNotificationRepository_MarkReadUnknownID(t *testing.T) {
	got, err := NewNotificationRepository().MarkRead(context.Background(), 99, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNotificationRepository_CountUnreadDropsOnceAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()
	first := seedNotification(t, repo, 1, "one")
	seedNotification(t, repo, 1, "two")
	seedNotification(t, repo, 3, "other")

	count, err := repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := repo.MarkRead(ctx, first.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsRead)

	count, _ = repo.CountUnread(ctx, 1)
	assert.Equal(t, 1, count)

	_, err = repo.MarkRead(ctx, first.ID, 1)
	require.NoError(t, err)
	count, _ = repo.CountUnread(ctx, 1)
	assert.Equal(t, 1, count)
}
