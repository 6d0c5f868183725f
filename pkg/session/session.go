// Package session wraps the gin-contrib cookie session: flash messages, the
// chosen locale and the per-session CSRF secret.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/pkg/helpers"
)

const (
	CookieName = "user_directory"

	keyLocale = "locale"
	keyCSRF   = "csrf_secret"
)

// Flash kinds, rendered as alert classes.
const (
	Success = "success"
	Error   = "error"
	Warning = "warning"
	Info    = "info"
)

var flashKinds = []string{Success, Error, Warning, Info}

type Flash struct {
	Kind    string
	Message string
}

// NewStore builds the signed cookie store. secret should be at least 32 bytes.
func NewStore(secret string, secure bool) sessions.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

func Middleware(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(CookieName, store)
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, kind, message string) {
	s := sessions.Default(c)
	s.AddFlash(message, kind)
	_ = s.Save()
}

// Flashes pops every queued message, grouped by kind in a fixed order.
func Flashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	var out []Flash
	for _, kind := range flashKinds {
		for _, v := range s.Flashes(kind) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = s.Save()
	}
	return out
}

func Locale(c *gin.Context) string {
	v, _ := sessions.Default(c).Get(keyLocale).(string)
	return v
}

func SetLocale(c *gin.Context, locale string) error {
	s := sessions.Default(c)
	s.Set(keyLocale, locale)
	return s.Save()
}

// CSRFToken returns the token authorizing intent (e.g. "delete42") for this
// session. The session secret is created on first use.
func CSRFToken(c *gin.Context, intent string) string {
	s := sessions.Default(c)
	secret, _ := s.Get(keyCSRF).(string)
	if secret == "" {
		var err error
		if secret, err = helpers.GenToken(32); err != nil {
			return ""
		}
		s.Set(keyCSRF, secret)
		_ = s.Save()
	}
	return sign(secret, intent)
}

// ValidCSRF reports whether token was issued for intent in this session.
func ValidCSRF(c *gin.Context, intent, token string) bool {
	secret, _ := sessions.Default(c).Get(keyCSRF).(string)
	if secret == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(sign(secret, intent)), []byte(token))
}

func sign(secret, intent string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(intent))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
