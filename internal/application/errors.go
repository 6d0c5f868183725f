package application

import (
	"errors"

	"github.com/oksasatya/user-directory/pkg/validation"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionExpired       = errors.New("session expired")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAvatarRejected       = errors.New("avatar rejected")
	ErrAvatarStore          = errors.New("avatar could not be stored")
	ErrTokenInvalid         = errors.New("invalid or expired token")
	ErrAlreadyVerified      = errors.New("email already verified")
	ErrUnavailable          = errors.New("feature unavailable")
	ErrIndexDisabled        = errors.New("search index is not enabled")
)

// FormError reports rejected form input. MessageID names the flash message
// to show; Fields holds per-field messages for the form.
type FormError struct {
	MessageID string
	Data      map[string]any
	Fields    validation.FieldErrors
}

func (e *FormError) Error() string { return "validation failed: " + e.MessageID }

func (e *FormError) Unwrap() error { return ErrValidation }

// AvatarError carries the user-facing reason an upload was refused. It
// unwraps to ErrAvatarRejected or ErrAvatarStore.
type AvatarError struct {
	Message string
	Err     error
}

func (e *AvatarError) Error() string { return e.Message }

func (e *AvatarError) Unwrap() error { return e.Err }
