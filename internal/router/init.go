package router

import (
	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/container"
	"github.com/oksasatya/user-directory/internal/domain/repository"
	pginfra "github.com/oksasatya/user-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/user-directory/internal/infrastructure/search"
	handlers "github.com/oksasatya/user-directory/internal/interface/http"
	"github.com/oksasatya/user-directory/internal/router/modules"
	"github.com/oksasatya/user-directory/pkg/helpers"
)

// Repositories is the persistence set for one DB_DRIVER.
type Repositories struct {
	Profiles      repository.ProfileRepository
	Identities    repository.IdentityRepository
	Notifications repository.NotificationRepository
}

// BuildRepositories picks the in-memory store when one is registered in the
// container, postgres otherwise.
func BuildRepositories() Repositories {
	if store := container.GetMemory(); store != nil {
		return Repositories{
			Profiles:      store.Profiles,
			Identities:    store.Identities,
			Notifications: store.Notifications,
		}
	}
	pool := container.GetPGPool()
	return Repositories{
		Profiles:      pginfra.NewProfileRepository(pool),
		Identities:    pginfra.NewIdentityRepository(pool),
		Notifications: pginfra.NewNotificationRepository(pool),
	}
}

// BuildProfileIndex returns the Elasticsearch profile index, or nil when
// search is not enabled.
func BuildProfileIndex() repository.ProfileIndex {
	es := container.GetES()
	if es == nil {
		return nil
	}
	return search.NewProfileIndex(es, container.GetConfig().ESProfilesIndex)
}

// Services are shared by every module.
type Services struct {
	Auth          *application.AuthService
	Account       *application.AccountService
	Profiles      *application.ProfileService
	Notifications *application.NotificationService
	Email         *application.EmailService
}

func BuildServices(repos Repositories) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()

	index := BuildProfileIndex()
	hasher := helpers.BcryptHasher{}
	email := application.NewEmailService(container.GetSender(), cfg.AppName, cfg.AppURL, logger)
	notifications := application.NewNotificationService(repos.Notifications, logger)

	return Services{
		Auth:          application.NewAuthService(repos.Identities, notifications, email, hasher, container.GetJWT(), rdb, logger),
		Account:       application.NewAccountService(repos.Identities, email, hasher, rdb, logger),
		Profiles:      application.NewProfileService(repos.Profiles, index, container.GetAvatars(), cfg.Location(), logger),
		Notifications: notifications,
		Email:         email,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, svc Services) *handlers.Renderer {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	tr := container.GetTranslator()

	renderer := handlers.NewRenderer(tr, svc.Notifications, logger)
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, cookies, renderer, logger), tr))
	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(svc.Account, renderer, logger), tr))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Profiles, renderer)))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(svc.Notifications, renderer), tr))
	r.Add(modules.NewLanguageModule(handlers.NewLanguageHandler(renderer, logger)))
	r.Add(modules.NewHealthModule())
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return renderer
}
