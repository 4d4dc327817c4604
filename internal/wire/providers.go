// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"site-gen-ai-api/internal/application/sitegen"
	"site-gen-ai-api/internal/config"
	"site-gen-ai-api/internal/domain/repository"
	"site-gen-ai-api/internal/infrastructure/llm"
	"site-gen-ai-api/internal/infrastructure/persistence/file"
	"site-gen-ai-api/internal/infrastructure/persistence/postgres"
	"site-gen-ai-api/internal/infrastructure/persistence/redis"
	"site-gen-ai-api/internal/interfaces/http/handler"
	"site-gen-ai-api/internal/interfaces/http/middleware"
	"site-gen-ai-api/internal/interfaces/http/router"
	"site-gen-ai-api/internal/workflow/port"
	"site-gen-ai-api/internal/workflow/prompt"
	"site-gen-ai-api/pkg/logger"
)

// ProjectStore 具备健康检查能力的项目仓储
type ProjectStore interface {
	repository.ProjectRepository
	repository.HealthChecker
}

// PostgresLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresLayer struct {
	PgClient *postgres.Client
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端，缓存与限流都未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Enabled && !cfg.Security.RateLimit.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "redis connected", "addr", cfg.Cache.Redis.Addr())
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideProjectStore 按 storage.driver 选择项目存储
func ProvideProjectStore(ctx context.Context, cfg *config.Config) (ProjectStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		client, cleanup, err := ProvidePostgresClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info(ctx, "using postgres project store", "host", cfg.Database.Postgres.Host)
		return postgres.NewProjectRepository(client, postgres.NewTxManager(client)), cleanup, nil
	case config.StorageDriverFile, "":
		store, err := file.NewProjectStore(cfg.Storage.File.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info(ctx, "using file project store", "path", cfg.Storage.File.Path)
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

// ProvideProjectRepository 启用缓存时为存储包一层列表缓存
func ProvideProjectRepository(cfg *config.Config, store ProjectStore, redisClient *redis.Client) repository.ProjectRepository {
	if !cfg.Cache.Enabled || redisClient == nil {
		return store
	}
	return redis.NewCachedProjectRepository(store, redis.NewCache(redisClient), cfg.Cache.ListTTL)
}

// ProvideSiteGenerator 提供默认的站点生成客户端
func ProvideSiteGenerator(ctx context.Context, cfg *config.Config) (port.SiteGenerator, error) {
	return llm.NewFactory(cfg).Default(ctx)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(store ProjectStore, redisClient *redis.Client) *handler.HealthHandler {
	if redisClient == nil {
		return handler.NewHealthHandler(store, nil)
	}
	return handler.NewHealthHandler(store, redisClient)
}

// ProvideRouter 提供路由器，Redis 未连接时生成接口不限流
func ProvideRouter(cfg *config.Config, site *handler.SiteHandler, health *handler.HealthHandler, redisClient *redis.Client) *router.Router {
	var limiter middleware.RateLimiter
	if redisClient != nil {
		limiter = redis.NewRateLimiter(redisClient)
	}
	return router.New(cfg, site, health, limiter, redis.BuildRateLimitKey)
}

var (
	_ sitegen.PromptBuilder = (*prompt.Registry)(nil)
	_ handler.SiteService   = (*sitegen.Service)(nil)
)
