package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/pkg/i18n"
	"github.com/oksasatya/user-directory/pkg/session"
)

type LanguageHandler struct {
	R      *Renderer
	Logger *logrus.Logger
}

func NewLanguageHandler(r *Renderer, logger *logrus.Logger) *LanguageHandler {
	return &LanguageHandler{R: r, Logger: logger}
}

// Switch GET /lang/:locale
func (h *LanguageHandler) Switch(c *gin.Context) {
	locale := c.Param("locale")
	if !i18n.IsSupported(locale) {
		h.R.NotFound(c)
		return
	}
	if err := session.SetLocale(c, locale); err != nil {
		h.Logger.WithError(err).Warn("locale not saved")
	}
	c.Redirect(http.StatusFound, languageRedirect(c.GetHeader("Referer"), c.Request.Host))
}

// languageRedirect sends the browser back to an internal referer. Login and
// registration pages are addressed by their canonical path.
func languageRedirect(referer, host string) string {
	if referer == "" {
		return "/user"
	}
	u, err := url.Parse(referer)
	if err != nil || u.Host != host {
		return "/user"
	}
	switch {
	case strings.Contains(u.Path, "/register"):
		return "/register"
	case strings.Contains(u.Path, "/login"):
		return "/login"
	}
	return referer
}
