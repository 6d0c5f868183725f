package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/internal/container"
	handlers "github.com/oksasatya/user-directory/internal/interface/http"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
)

// UserModule wires the profile directory.
// GET /user, GET|POST /user/new, GET /user/:id, GET|POST /user/:id/edit,
// POST /user/:id (delete)
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/user") })

	writeLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIdentity(), nil, nil)

	users := rg.Group("/user")
	{
		users.GET("", m.Handler.List)
		users.GET("/new", m.Handler.New)
		users.POST("/new", writeLimiter, m.Handler.Create)
		users.GET("/:id", m.Handler.Show)
		users.GET("/:id/edit", m.Handler.Edit)
		users.POST("/:id/edit", writeLimiter, m.Handler.Update)
		users.POST("/:id", writeLimiter, m.Handler.Delete)
	}
}
