package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-directory/internal/interface/http"
)

type LanguageModule struct {
	Handler *handlers.LanguageHandler
}

func NewLanguageModule(h *handlers.LanguageHandler) *LanguageModule {
	return &LanguageModule{Handler: h}
}

func (m *LanguageModule) Register(rg *gin.RouterGroup) {
	rg.GET("/lang/:locale", m.Handler.Switch)
}
