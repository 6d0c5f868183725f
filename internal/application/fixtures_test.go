package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/user-directory/internal/infrastructure/memory"
	"github.com/oksasatya/user-directory/internal/infrastructure/storage"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/mailer"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail bool
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.sent...)
}

type fixture struct {
	store    *memory.Store
	sender   *recordingSender
	rdb      *redis.Client
	mr       *miniredis.Miniredis
	email    *EmailService
	notes    *NotificationService
	auth     *AuthService
	account  *AccountService
	profiles *ProfileService
	avatars  *storage.Local
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := helpers.NewDiscardLogger()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	avatars, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	f := &fixture{
		store:   memory.NewStore(),
		sender:  &recordingSender{},
		rdb:     rdb,
		mr:      mr,
		avatars: avatars,
	}
	hasher := helpers.BcryptHasher{Cost: bcrypt.MinCost}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	f.email = NewEmailService(f.sender, "User Directory", "http://localhost:8080", logger)
	f.notes = NewNotificationService(f.store.Notifications, logger)
	f.auth = NewAuthService(f.store.Identities, f.notes, f.email, hasher, jwt, rdb, logger)
	f.account = NewAccountService(f.store.Identities, f.email, hasher, rdb, logger)
	f.profiles = NewProfileService(f.store.Profiles, nil, avatars, time.UTC, logger)
	return f
}

func (f *fixture) register(t *testing.T, name, email, password string) *RegisterResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: password, PasswordConfirm: password,
	})
	require.NoError(t, err)
	return res
}

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R'}
)

// fakeUpload builds an upload whose content starts with magic and is padded
// to size bytes.
func fakeUpload(filename string, magic []byte, size int) *AvatarUpload {
	content := make([]byte, size)
	copy(content, magic)
	return &AvatarUpload{
		Filename: filename,
		Size:     int64(size),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}
