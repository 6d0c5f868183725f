package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEngine(t *testing.T, max int, allow AllowFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(false))
	r.GET("/ping", RateLimit(rdb, max, time.Minute, KeyByIP(), allow, nil), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r, mr
}

func hit(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	r, mr := newLimitedEngine(t, 2, nil)

	for i := 0; i < 2; i++ {
		w := hit(r, "203.0.113.7:1234")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := hit(r, "203.0.113.7:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")

	// another client has its own window
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.8:1234").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7:1234").Code)
}

func TestRateLimit_AllowPrivateIPBypasses(t *testing.T) {
	r, _ := newLimitedEngine(t, 1, AllowPrivateIP())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.1.2.3:5000").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1:5000").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "198.51.100.1:5000").Code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(nil, 1, time.Minute, KeyByIP(), nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7:1").Code)
	}
}

func TestBackURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		referer string
		want    string
	}{
		{"http://example.com/user?page=2", "/user?page=2"},
		{"http://evil.test/user", "/fallback"},
		{"", "/fallback"},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "http://example.com/login", nil)
		c.Request.Header.Set("Referer", tt.referer)
		assert.Equal(t, tt.want, backURL(c, "/fallback"), tt.referer)
	}
}
