package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/internal/container"
	handlers "github.com/oksasatya/user-directory/internal/interface/http"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/i18n"
)

// AuthModule serves registration, login and logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	I18n    *i18n.Translator
}

func NewAuthModule(h *handlers.AuthHandler, tr *i18n.Translator) *AuthModule {
	return &AuthModule{Handler: h, I18n: tr}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Form posts are limited per IP and path; a blocked post is flashed back
	// to the form.
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil, middleware.FlashOnLimit(m.I18n))
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil, middleware.FlashOnLimit(m.I18n))

	guest := rg.Group("/")
	guest.Use(middleware.RedirectIfAuthenticated())
	{
		guest.GET("/register", m.Handler.RegisterPage)
		guest.POST("/register", registerLimiter, m.Handler.Register)
		guest.GET("/login", m.Handler.LoginPage)
		guest.POST("/login", loginLimiter, m.Handler.Login)
	}

	rg.GET("/logout", m.Handler.Logout)
}
