package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/internal/container"
	handlers "github.com/oksasatya/user-directory/internal/interface/http"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/i18n"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	I18n    *i18n.Translator
}

func NewNotificationModule(h *handlers.NotificationHandler, tr *i18n.Translator) *NotificationModule {
	return &NotificationModule{Handler: h, I18n: tr}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	inbox := rg.Group("/notifications")
	{
		inbox.GET("/", middleware.RequireAuth(m.I18n), m.Handler.Inbox)
		inbox.POST("/read/:id", middleware.RequireAuth(m.I18n), m.Handler.MarkRead)
		// Polled by the header badge
		inbox.GET("/unread-count",
			middleware.RequireIdentityJSON(),
			middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIdentity(), nil, middleware.JSONOnLimit()),
			m.Handler.UnreadCount,
		)
	}
}
