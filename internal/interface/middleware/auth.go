package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/i18n"
	"github.com/oksasatya/user-directory/pkg/session"
)

const CtxIdentityKey = "identity"

// SessionResolver turns auth cookies into an identity.
type SessionResolver interface {
	Resolve(ctx context.Context, accessToken string) (*entity.AuthIdentity, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.AuthIdentity, application.TokenPair, error)
}

// Authenticate resolves the access cookie into the current identity. An
// expired access token is renewed from the refresh cookie. Anonymous
// requests pass through untouched.
func Authenticate(auth SessionResolver, cookies *helpers.Manager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if token, err := c.Cookie(helpers.AccessCookie); err == nil && token != "" {
			if a, err := auth.Resolve(ctx, token); err == nil {
				c.Set(CtxIdentityKey, a)
				c.Next()
				return
			}
		}
		if refresh, err := c.Cookie(helpers.RefreshCookie); err == nil && refresh != "" {
			a, pair, err := auth.Refresh(ctx, refresh)
			if err != nil {
				logger.WithField("request_id", c.GetString("request_id")).Debug("refresh rejected, clearing cookies")
				cookies.Clear(c)
			} else {
				cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
				c.Set(CtxIdentityKey, a)
			}
		}
		c.Next()
	}
}

// Identity returns the authenticated identity or nil.
func Identity(c *gin.Context) *entity.AuthIdentity {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	a, _ := v.(*entity.AuthIdentity)
	return a
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Identity(c) == nil {
			session.AddFlash(c, session.Info, tr.T(Locale(c), "login.required", nil))
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated keeps signed-in identities off the login and
// registration pages.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Identity(c) != nil {
			c.Redirect(http.StatusSeeOther, "/user")
			c.Abort()
			return
		}
		c.Next()
	}
}
