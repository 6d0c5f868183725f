package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/i18n"
	"github.com/oksasatya/user-directory/pkg/session"
)

type fakeResolver struct {
	access  map[string]*entity.AuthIdentity
	refresh map[string]*entity.AuthIdentity
}

func (f fakeResolver) Resolve(_ context.Context, token string) (*entity.AuthIdentity, error) {
	if a, ok := f.access[token]; ok {
		return a, nil
	}
	return nil, application.ErrSessionExpired
}

func (f fakeResolver) Refresh(_ context.Context, token string) (*entity.AuthIdentity, application.TokenPair, error) {
	if a, ok := f.refresh[token]; ok {
		exp := time.Now().Add(time.Hour)
		return a, application.TokenPair{AccessToken: "new-access", AccessTokenExpiry: exp, RefreshToken: "new-refresh", RefreshTokenExpiry: exp}, nil
	}
	return nil, application.TokenPair{}, errors.New("expired")
}

func newAuthEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tr, err := i18n.New("en")
	require.NoError(t, err)

	ann := &entity.AuthIdentity{ID: 1, Name: "Ann"}
	res := fakeResolver{
		access:  map[string]*entity.AuthIdentity{"good": ann},
		refresh: map[string]*entity.AuthIdentity{"good-refresh": ann},
	}

	r := gin.New()
	r.Use(session.Middleware(session.NewStore("0123456789abcdef0123456789abcdef", false)))
	r.Use(LocaleFromSession(tr))
	r.Use(Authenticate(res, helpers.NewCookie("", false), helpers.NewDiscardLogger()))
	r.GET("/private", RequireAuth(tr), func(c *gin.Context) { c.String(http.StatusOK, Identity(c).Name) })
	r.GET("/login", RedirectIfAuthenticated(), func(c *gin.Context) { c.String(http.StatusOK, "login form") })
	r.GET("/api/count", RequireIdentityJSON(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func request(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newAuthEngine(t)

	w := request(r, "/private")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = request(r, "/private", &http.Cookie{Name: helpers.AccessCookie, Value: "good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ann", w.Body.String())

	w = request(r, "/api/count")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_RefreshesExpiredAccess(t *testing.T) {
	r := newAuthEngine(t)

	w := request(r, "/private",
		&http.Cookie{Name: helpers.AccessCookie, Value: "stale"},
		&http.Cookie{Name: helpers.RefreshCookie, Value: "good-refresh"},
	)
	require.Equal(t, http.StatusOK, w.Code)

	var access string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.AccessCookie {
			access = ck.Value
		}
	}
	assert.Equal(t, "new-access", access)
}

func TestAuthenticate_BadRefreshClearsCookies(t *testing.T) {
	r := newAuthEngine(t)

	w := request(r, "/private", &http.Cookie{Name: helpers.RefreshCookie, Value: "bogus"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	cleared := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.RefreshCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	r := newAuthEngine(t)

	assert.Equal(t, http.StatusOK, request(r, "/login").Code)

	w := request(r, "/login", &http.Cookie{Name: helpers.AccessCookie, Value: "good"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/user", w.Header().Get("Location"))
}
