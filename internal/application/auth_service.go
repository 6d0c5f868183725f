package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	repo "github.com/oksasatya/user-directory/internal/domain/repository"
	"github.com/oksasatya/user-directory/internal/metrics"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/validation"
)

const (
	PasswordMinLength = 6
	sessionTTL        = 24 * time.Hour
)

// PasswordHasher hashes and checks passwords. helpers.BcryptHasher is the
// production implementation.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// WelcomeMailer sends the post-registration email.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, to, name string) bool
}

type AuthService struct {
	Identities    repo.IdentityRepository
	Notifications *NotificationService
	Mail          WelcomeMailer
	Hasher        PasswordHasher
	JWT           *helpers.JWTManager
	Redis         *redis.Client // optional
	Logger        *logrus.Logger
}

func NewAuthService(identities repo.IdentityRepository, notifications *NotificationService, mail WelcomeMailer, hasher PasswordHasher, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Identities:    identities,
		Notifications: notifications,
		Mail:          mail,
		Hasher:        hasher,
		JWT:           jwt,
		Redis:         rdb,
		Logger:        logger,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string `form:"name" validate:"required,max=100"`
	Email           string `form:"email" validate:"required,email,max=180"`
	Password        string `form:"password" validate:"required,pwd"`
	PasswordConfirm string `form:"password_confirm" validate:"eqfield=Password"`
}

// ValidateRegistration runs the form constraints, then the explicit password
// check. The returned FormError names the flash message: the password
// messages take precedence over the generic one.
func ValidateRegistration(in *RegisterInput) *FormError {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	fields := validation.Struct(in)
	switch {
	case in.Password == "":
		return &FormError{MessageID: "form.password_required", Fields: fields}
	case utf8.RuneCountInString(in.Password) < PasswordMinLength:
		return &FormError{MessageID: "form.password_min_length", Data: map[string]any{"Limit": PasswordMinLength}, Fields: fields}
	case len(fields) > 0:
		return &FormError{MessageID: "register.form_errors", Fields: fields}
	}
	return nil
}

type RegisterResult struct {
	Identity  *entity.AuthIdentity
	EmailSent bool
}

// Register creates an identity and its welcome notification, then attempts
// the welcome email. The email outcome never undoes the earlier writes.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	res, err := s.register(ctx, in)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	case errors.Is(err, ErrValidation):
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
	case errors.Is(err, ErrEmailTaken):
		metrics.RegistrationsTotal.WithLabelValues("email_taken").Inc()
	default:
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
	}
	return res, err
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if ferr := ValidateRegistration(&in); ferr != nil {
		return nil, ferr
	}

	if _, err := s.Identities.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	identity := &entity.AuthIdentity{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        entity.DefaultRoles(),
	}
	if err := s.Identities.Create(ctx, identity); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}
	log := s.Logger.WithField("identity_id", identity.ID)
	log.Info("identity registered")

	if _, err := s.Notifications.Create(ctx, identity.ID, entity.WelcomeNotificationTitle, entity.WelcomeNotificationMessage); err != nil {
		log.WithError(err).Error("welcome notification failed")
	}

	sent := s.Mail.SendWelcomeEmail(ctx, identity.Email, identity.Name)
	return &RegisterResult{Identity: identity, EmailSent: sent}, nil
}

// Authenticate validates email/password and returns the identity without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.AuthIdentity, error) {
	a, err := s.Identities.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repo.ErrNotFound) || (err == nil && a == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if !s.Hasher.Compare(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, a *entity.AuthIdentity) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(a.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("identity_id", a.ID).Error("generate tokens failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := helpers.KeySession(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    strconv.FormatInt(a.ID, 10),
			"email":      a.Email,
			"name":       a.Name,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.AuthIdentity, TokenPair, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return a, pair, nil
}

// Resolve maps an access token to its identity. With Redis configured the
// token's session id must match the live session.
func (s *AuthService) Resolve(ctx context.Context, accessToken string) (*entity.AuthIdentity, error) {
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, ErrSessionExpired
	}
	return s.identityForClaims(ctx, claims)
}

// Refresh rotates the token pair for a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.AuthIdentity, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrSessionExpired
	}
	a, err := s.identityForClaims(ctx, claims)
	if err != nil {
		return nil, TokenPair{}, err
	}

	sid := uuid.NewString()
	pair, err := s.signPair(a.ID, sid)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if s.Redis != nil {
		key := helpers.KeySession(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return a, pair, nil
}

// Logout drops the server-side session.
func (s *AuthService) Logout(ctx context.Context, identityID int64) {
	if s.Redis == nil || identityID == 0 {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.KeySession(identityID)); err != nil {
		s.Logger.WithError(err).WithField("identity_id", identityID).Warn("session delete failed")
	}
}

func (s *AuthService) identityForClaims(ctx context.Context, claims *helpers.Claims) (*entity.AuthIdentity, error) {
	id, err := claims.IdentityID()
	if err != nil {
		return nil, ErrSessionExpired
	}
	if s.Redis != nil {
		sid, rErr := s.Redis.HGet(ctx, helpers.KeySession(id), "sid").Result()
		if rErr != nil || sid != claims.SessionID {
			return nil, ErrSessionExpired
		}
	}
	a, err := s.Identities.GetByID(ctx, id)
	if err != nil {
		return nil, ErrSessionExpired
	}
	return a, nil
}

func (s *AuthService) signPair(id int64, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(id, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(id, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
