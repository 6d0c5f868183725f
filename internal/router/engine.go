package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/internal/container"
	handlers "github.com/oksasatya/user-directory/internal/interface/http"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/session"
)

// maxAvatarMemory keeps a 5 MiB avatar plus form fields in memory.
const maxAvatarMemory = 8 << 20

// NewEngine builds the gin engine with templates, global middleware and
// every module wired from the container.
func NewEngine(svc Services) (*gin.Engine, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	tr := container.GetTranslator()

	tmpl, err := handlers.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = maxAvatarMemory

	// Global middleware runs for NoRoute as well, so the 404 page still
	// knows the locale and the signed-in identity.
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Metrics())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(session.Middleware(session.NewStore(cfg.SessionSecret, cfg.CookieSecure)))
	r.Use(middleware.LocaleFromSession(tr))
	r.Use(middleware.Authenticate(svc.Auth, helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure), logger))

	if cfg.AvatarStorage == "local" {
		r.Static(cfg.UploadURLPrefix, cfg.UploadDir)
	}

	reg := NewRegistry(r)
	renderer := InitModules(reg, svc)
	reg.RegisterAll()

	r.NoRoute(renderer.NotFound)
	return r, nil
}
