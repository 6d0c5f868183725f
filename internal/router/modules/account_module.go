package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/internal/container"
	handlers "github.com/oksasatya/user-directory/internal/interface/http"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/i18n"
)

// AccountModule serves password reset and email verification.
type AccountModule struct {
	Handler *handlers.AccountHandler
	I18n    *i18n.Translator
}

func NewAccountModule(h *handlers.AccountHandler, tr *i18n.Translator) *AccountModule {
	return &AccountModule{Handler: h, I18n: tr}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	onLimit := middleware.FlashOnLimit(m.I18n)
	resetInitLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil, onLimit)
	resetConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil, onLimit)

	rg.GET("/forgot-password", m.Handler.ForgotPage)
	rg.POST("/forgot-password", resetInitLimiter, m.Handler.Forgot)
	rg.GET("/reset-password/:token", m.Handler.ResetPage)
	rg.POST("/reset-password/:token", resetConfirmLimiter, m.Handler.Reset)
	rg.GET("/verify-email/:token", m.Handler.Verify)

	// Verification mails go to the signed-in identity only
	auth := rg.Group("/account")
	auth.Use(middleware.RequireAuth(m.I18n))
	auth.Use(middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIdentity(), nil, onLimit))
	{
		auth.POST("/verify", m.Handler.RequestVerification)
	}
}
