package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/user-directory/internal/container"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/response"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Scrapers inside the cluster are never limited
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP(), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
}

// HealthModule reports whether the process and its backing services answer.
type HealthModule struct{}

func NewHealthModule() *HealthModule { return &HealthModule{} }

type healthStatus struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		st := healthStatus{Database: "memory", Redis: "disabled"}
		healthy := true
		if pool := container.GetPGPool(); pool != nil {
			st.Database = "ok"
			if err := pool.Ping(ctx); err != nil {
				st.Database, healthy = "down", false
			}
		}
		if rdb := container.GetRedis(); rdb != nil {
			st.Redis = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				st.Redis, healthy = "down", false
			}
		}
		if !healthy {
			response.Write(c, response.Error[healthStatus](c, http.StatusServiceUnavailable, "unhealthy", st))
			return
		}
		response.Write(c, response.Success(c, http.StatusOK, st, "ok", nil))
	})
}
