package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/pkg/i18n"
	"github.com/oksasatya/user-directory/pkg/session"
)

const CtxLocaleKey = "locale"

// LocaleFromSession picks the request locale: the session choice when it is
// supported, otherwise the best match for Accept-Language.
func LocaleFromSession(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := session.Locale(c)
		if !i18n.IsSupported(locale) {
			locale = tr.Match(c.GetHeader("Accept-Language"))
		}
		c.Set(CtxLocaleKey, locale)
		c.Next()
	}
}

// Locale returns the locale chosen by LocaleFromSession, or "en".
func Locale(c *gin.Context) string {
	if l := c.GetString(CtxLocaleKey); l != "" {
		return l
	}
	return "en"
}
