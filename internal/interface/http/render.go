package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/i18n"
	"github.com/oksasatya/user-directory/pkg/session"
	"github.com/oksasatya/user-directory/pkg/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates. Pages are addressed by file
// name, e.g. "users_index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"age": func(p *int) string {
			if p == nil {
				return ""
			}
			return strconv.Itoa(*p)
		},
	}).ParseFS(templatesFS, "templates/*.html")
}

// Renderer builds the per-request view shared by every page.
type Renderer struct {
	I18n          *i18n.Translator
	Notifications *application.NotificationService
	Logger        *logrus.Logger
}

func NewRenderer(tr *i18n.Translator, notifications *application.NotificationService, logger *logrus.Logger) *Renderer {
	return &Renderer{I18n: tr, Notifications: notifications, Logger: logger}
}

// View is the root template value.
type View struct {
	Locale   string
	Locales  []string
	Path     string
	Identity *entity.AuthIdentity
	Unread   int
	Flashes  []session.Flash
	Errors   validation.FieldErrors
	Data     gin.H

	tr *i18n.Translator
}

// T translates id. kv are alternating placeholder names and values:
// {{ .T "users.pagination_info" "From" 1 "To" 10 "Total" 42 }}.
func (v View) T(id string, kv ...any) string {
	var data map[string]any
	if len(kv) > 1 {
		data = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				data[k] = kv[i+1]
			}
		}
	}
	return v.tr.T(v.Locale, id, data)
}

// HTML renders page with the common view fields filled in.
func (r *Renderer) HTML(c *gin.Context, status int, page string, data gin.H, errs validation.FieldErrors) {
	v := View{
		Locale:   middleware.Locale(c),
		Locales:  i18n.Supported,
		Path:     c.Request.URL.Path,
		Identity: middleware.Identity(c),
		Errors:   errs,
		Data:     data,
		tr:       r.I18n,
	}
	if v.Identity != nil && r.Notifications != nil {
		n, err := r.Notifications.CountUnread(c.Request.Context(), v.Identity.ID)
		if err != nil {
			r.Logger.WithError(err).WithField("identity_id", v.Identity.ID).Warn("unread count failed")
		}
		v.Unread = n
	}
	// pop flashes last so anything queued above still shows
	v.Flashes = session.Flashes(c)
	c.HTML(status, page, v)
}

// T translates for the request locale.
func (r *Renderer) T(c *gin.Context, id string, data map[string]any) string {
	return r.I18n.T(middleware.Locale(c), id, data)
}

// Flash queues a translated message.
func (r *Renderer) Flash(c *gin.Context, kind, id string, data map[string]any) {
	session.AddFlash(c, kind, r.T(c, id, data))
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(c *gin.Context) {
	r.HTML(c, http.StatusNotFound, "error.html", gin.H{"Title": r.T(c, "error.not_found_title", nil), "Message": r.T(c, "error.not_found", nil)}, nil)
}

// ServerError logs err and renders a generic failure page.
func (r *Renderer) ServerError(c *gin.Context, err error) {
	r.Logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
	}).Error("request failed")
	_ = c.Error(err)
	r.HTML(c, http.StatusInternalServerError, "error.html", gin.H{"Title": r.T(c, "error.generic", nil), "Message": r.T(c, "error.generic", nil)}, nil)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
