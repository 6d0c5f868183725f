package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_MarkReadScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.notes.Create(ctx, 1, "Hi", "there")
	require.NoError(t, err)

	_, err = f.notes.MarkRead(ctx, n.ID, 2)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	_, err = f.notes.MarkRead(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	unread, err := f.notes.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	got, err := f.notes.MarkRead(ctx, n.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	// marking again is a no-op
	_, err = f.notes.MarkRead(ctx, n.ID, 1)
	require.NoError(t, err)
	inbox, err := f.notes.Inbox(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, inbox.Unread)
	assert.Len(t, inbox.Items, 1)
}

func TestNotificationService_CreateValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		title   string
		message string
		field   string
	}{
		{"title too long", strings.Repeat("t", 151), "body", "title"},
		{"empty title", "", "body", "title"},
		{"empty message", "Hi", "", "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.notes.Create(ctx, 1, tt.title, tt.message)
			var ferr *FormError
			require.ErrorAs(t, err, &ferr)
			assert.True(t, ferr.Fields.Has(tt.field), "fields: %v", ferr.Fields.Map())
		})
	}

	n, err := f.notes.Create(ctx, 1, strings.Repeat("t", 150), "body")
	require.NoError(t, err)
	assert.Len(t, n.Title, 150)

	unread, err := f.notes.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}
