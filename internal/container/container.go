package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/config"
	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager
	gateway    application.PaymentGateway

	reconcilePub *helpers.RabbitPublisher
	receiptsPub  *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)  { cfg = c }
func GetConfig() *config.Config   { return cfg }
func SetLogger(l *logrus.Logger)  { logger = l }
func GetLogger() *logrus.Logger   { return logger }
func SetPGPool(p *pgxpool.Pool)   { pgPool = p }
func GetPGPool() *pgxpool.Pool    { return pgPool }
func SetRedis(r *redis.Client)    { redisClient = r }
func GetRedis() *redis.Client     { return redisClient }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetGateway(g application.PaymentGateway) { gateway = g }
func GetGateway() application.PaymentGateway  { return gateway }

func SetReconcilePub(p *helpers.RabbitPublisher) { reconcilePub = p }
func GetReconcilePub() *helpers.RabbitPublisher  { return reconcilePub }
func SetReceiptsPub(p *helpers.RabbitPublisher)  { receiptsPub = p }
func GetReceiptsPub() *helpers.RabbitPublisher   { return receiptsPub }
