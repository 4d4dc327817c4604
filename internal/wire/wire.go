//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"site-gen-ai-api/internal/application/sitegen"
	"site-gen-ai-api/internal/config"
	"site-gen-ai-api/internal/interfaces/http/handler"
	"site-gen-ai-api/internal/interfaces/http/router"
	"site-gen-ai-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StorageSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresLayer, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		wire.Struct(new(PostgresLayer), "*"),
	)
	return nil, nil, nil
}

// StorageSet 存储提供者集合
var StorageSet = wire.NewSet(
	ProvideRedisClient,
	ProvideProjectStore,
	ProvideProjectRepository,
)

// GenerationSet 生成流程提供者集合
var GenerationSet = wire.NewSet(
	prompt.NewRegistry,
	ProvideSiteGenerator,
	sitegen.NewService,
	wire.Bind(new(sitegen.PromptBuilder), new(*prompt.Registry)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewSiteHandler,
	wire.Bind(new(handler.SiteService), new(*sitegen.Service)),
	ProvideHealthHandler,
	ProvideRouter,
)
