package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/config"
	"github.com/oksasatya/user-directory/internal/infrastructure/memory"
	"github.com/oksasatya/user-directory/internal/infrastructure/storage"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/i18n"
	"github.com/oksasatya/user-directory/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	memStore    *memory.Store
	redisClient *redis.Client
	esClient    *elasticsearch.Client
	esCreated   bool

	jwtManager *helpers.JWTManager
	sender     mailer.Sender
	translator *i18n.Translator
	avatars    storage.AvatarStorage
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetMemory(s *memory.Store)     { memStore = s }
func GetMemory() *memory.Store      { return memStore }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager   { return jwtManager }

// SetESIndexCreated records that Init created the profile index, so it has
// to be filled from the store before serving.
func SetESIndexCreated(v bool) { esCreated = v }
func ESIndexCreated() bool     { return esCreated }

func SetSender(s mailer.Sender) { sender = s }

// GetSender never returns nil; an unset sender reports every send as failed.
func GetSender() mailer.Sender {
	if sender != nil {
		return sender
	}
	return mailer.Disabled{}
}

func SetTranslator(t *i18n.Translator)   { translator = t }
func GetTranslator() *i18n.Translator    { return translator }
func SetAvatars(s storage.AvatarStorage) { avatars = s }
func GetAvatars() storage.AvatarStorage  { return avatars }
