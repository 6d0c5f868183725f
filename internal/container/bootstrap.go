package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/config"
	"github.com/oksasatya/user-directory/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/user-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/user-directory/internal/infrastructure/search"
	"github.com/oksasatya/user-directory/internal/infrastructure/storage"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/i18n"
	"github.com/oksasatya/user-directory/pkg/mailer"
)

// Init connects every backing service named by cfg and registers it in the
// container. The returned func releases them in reverse order.
func Init(ctx context.Context, cfg *config.Config, log *logrus.Logger) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (func(), error) {
		cleanup()
		return func() {}, err
	}

	SetConfig(cfg)
	SetLogger(log)
	reset()

	switch cfg.DBDriver {
	case "memory":
		log.Warn("DB_DRIVER=memory: data lives only as long as the process")
		SetMemory(memory.NewStore())
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fail(fmt.Errorf("connect postgres: %w", err))
		}
		closers = append(closers, pool.Close)
		SetPGPool(pool)
	default:
		return fail(fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver))
	}

	if cfg.RedisEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Sessions, limits and reset tokens degrade without Redis.
			log.WithError(err).Warn("redis unreachable, continuing without it")
			_ = rdb.Close()
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			SetRedis(rdb)
		}
	}

	if cfg.ESEnabled {
		es, err := search.NewClient(ctx, search.ClientOptions{
			Addrs:    cfg.ESAddrs(),
			Username: cfg.ElasticsearchUser,
			Password: cfg.ElasticsearchPass,
		})
		var created bool
		if err == nil {
			created, err = search.NewProfileIndex(es, cfg.ESProfilesIndex).EnsureIndex(ctx)
		}
		if err != nil {
			log.WithError(err).Warn("elasticsearch unavailable, searching the database instead")
		} else {
			SetES(es)
			SetESIndexCreated(created)
		}
	}

	SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL))

	if cfg.MailSendEnabled && cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		SetSender(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailerFromEmail, cfg.MailerFromName))
	} else {
		log.Warn("mail sending disabled, every email will be reported as not sent")
		SetSender(mailer.Disabled{})
	}

	tr, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		return fail(fmt.Errorf("load translations: %w", err))
	}
	SetTranslator(tr)

	avatarStore, closeAvatars, err := newAvatarStorage(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	if closeAvatars != nil {
		closers = append(closers, closeAvatars)
	}
	SetAvatars(avatarStore)

	log.WithFields(logrus.Fields{
		"db":      cfg.DBDriver,
		"redis":   GetRedis() != nil,
		"search":  GetES() != nil,
		"avatars": cfg.AvatarStorage,
	}).Info("container initialized")
	return cleanup, nil
}

func newAvatarStorage(ctx context.Context, cfg *config.Config) (storage.AvatarStorage, func(), error) {
	switch cfg.AvatarStorage {
	case "local":
		s, err := storage.NewLocal(cfg.UploadDir, cfg.UploadURLPrefix)
		return s, nil, err
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, fmt.Errorf("init gcs client: %w", err)
		}
		s, err := storage.NewGCS(client, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return s, func() { _ = client.Close() }, nil
	case "minio":
		s, err := storage.NewMinio(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			Prefix:    "avatars",
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, nil, fmt.Errorf("ensure minio bucket: %w", err)
		}
		return s, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown AVATAR_STORAGE %q", cfg.AvatarStorage)
	}
}

// reset drops optional backends left over from a previous Init.
func reset() {
	SetPGPool(nil)
	SetMemory(nil)
	SetRedis(nil)
	SetES(nil)
	SetESIndexCreated(false)
	SetSender(nil)
	SetAvatars(nil)
}
