package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/user-directory/internal/domain/repository"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/validation"
)

// AccountMailer sends the password reset and verification emails.
type AccountMailer interface {
	SendPasswordResetEmail(ctx context.Context, to, token string) bool
	SendAccountVerificationEmail(ctx context.Context, to, token string) bool
}

// AccountService runs the password reset and email verification flows. Both
// keep one-time tokens in Redis; without Redis they report ErrUnavailable.
type AccountService struct {
	Identities repo.IdentityRepository
	Mail       AccountMailer
	Hasher     PasswordHasher
	Redis      *redis.Client
	Logger     *logrus.Logger
}

func NewAccountService(identities repo.IdentityRepository, mail AccountMailer, hasher PasswordHasher, rdb *redis.Client, logger *logrus.Logger) *AccountService {
	return &AccountService{Identities: identities, Mail: mail, Hasher: hasher, Redis: rdb, Logger: logger}
}

// RequestPasswordReset issues a reset token for a known email. Unknown
// emails succeed silently so the form cannot be used to discover accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if s.Redis == nil {
		return ErrUnavailable
	}
	a, err := s.Identities.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup identity: %w", err)
	}

	token, err := helpers.GenToken(32)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	if err := helpers.RedisSetID(ctx, s.Redis, helpers.KeyResetToken(token), a.ID, PasswordResetTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if !s.Mail.SendPasswordResetEmail(ctx, a.Email, token) {
		s.Logger.WithField("identity_id", a.ID).Warn("password reset email not sent")
	}
	return nil
}

// CheckResetToken reports whether token is still redeemable.
func (s *AccountService) CheckResetToken(ctx context.Context, token string) error {
	_, err := s.lookup(ctx, helpers.KeyResetToken(token))
	return err
}

type ResetPasswordInput struct {
	Password        string `form:"password" validate:"required,pwd"`
	PasswordConfirm string `form:"password_confirm" validate:"eqfield=Password"`
}

// ResetPassword sets a new password and burns the token.
func (s *AccountService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	id, err := s.lookup(ctx, helpers.KeyResetToken(token))
	if err != nil {
		return err
	}
	if fields := validation.Struct(in); len(fields) > 0 {
		return &FormError{MessageID: "form.invalid", Fields: fields}
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Identities.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	_ = helpers.RedisDel(ctx, s.Redis, helpers.KeyResetToken(token))
	s.Logger.WithField("identity_id", id).Info("password reset")
	return nil
}

// RequestVerification emails a verification link to the identity. It
// returns whether the email went out.
func (s *AccountService) RequestVerification(ctx context.Context, identityID int64) (bool, error) {
	if s.Redis == nil {
		return false, ErrUnavailable
	}
	a, err := s.Identities.GetByID(ctx, identityID)
	if err != nil {
		return false, err
	}
	if a.IsVerified() {
		return false, ErrAlreadyVerified
	}
	token, err := helpers.GenToken(32)
	if err != nil {
		return false, fmt.Errorf("generate token: %w", err)
	}
	if err := helpers.RedisSetID(ctx, s.Redis, helpers.KeyVerifyToken(token), a.ID, VerificationTTL); err != nil {
		return false, fmt.Errorf("store verify token: %w", err)
	}
	return s.Mail.SendAccountVerificationEmail(ctx, a.Email, token), nil
}

// VerifyEmail marks the token's identity as verified and burns the token.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	id, err := s.lookup(ctx, helpers.KeyVerifyToken(token))
	if err != nil {
		return err
	}
	if err := s.Identities.SetVerified(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	_ = helpers.RedisDel(ctx, s.Redis, helpers.KeyVerifyToken(token))
	return nil
}

func (s *AccountService) lookup(ctx context.Context, key string) (int64, error) {
	if s.Redis == nil {
		return 0, ErrUnavailable
	}
	id, found, err := helpers.RedisGetID(ctx, s.Redis, key)
	if err != nil {
		return 0, fmt.Errorf("read token: %w", err)
	}
	if !found {
		return 0, ErrTokenInvalid
	}
	return id, nil
}
