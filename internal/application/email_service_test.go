package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/mailer"
)

type panickingSender struct{}

func (panickingSender) Send(context.Context, mailer.Message) error { panic("boom") }

func TestEmailService_ReportsOutcome(t *testing.T) {
	ctx := context.Background()
	logger := helpers.NewDiscardLogger()

	rec := &recordingSender{}
	ok := NewEmailService(rec, "User Directory", "http://app.test/", logger).SendWelcomeEmail(ctx, "ann@example.com", "Ann")
	assert.True(t, ok)
	msgs := rec.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "http://app.test/login")
	assert.NotEmpty(t, msgs[0].HTML)

	assert.False(t, NewEmailService(mailer.Disabled{}, "App", "http://app.test", logger).SendWelcomeEmail(ctx, "a@b.c", "A"))
	assert.False(t, NewEmailService(&recordingSender{fail: true}, "App", "http://app.test", logger).SendPasswordResetEmail(ctx, "a@b.c", "tok"))

	assert.NotPanics(t, func() {
		assert.False(t, NewEmailService(panickingSender{}, "App", "http://app.test", logger).SendAccountVerificationEmail(ctx, "a@b.c", "tok"))
	})
}
