// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"site-gen-ai-api/internal/config"
	"site-gen-ai-api/internal/interfaces/http/handler"
	"site-gen-ai-api/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	site    *handler.SiteHandler
	health  *handler.HealthHandler
	limiter middleware.RateLimiter
	keyFn   middleware.KeyFunc
}

// New 创建新的路由器，limiter 为 nil 时生成接口不限流
func New(cfg *config.Config, site *handler.SiteHandler, health *handler.HealthHandler, limiter middleware.RateLimiter, keyFn middleware.KeyFunc) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		site:    site,
		health:  health,
		limiter: limiter,
		keyFn:   keyFn,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.AccessLog())
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	var limiter middleware.RateLimiter
	if r.cfg.Security.RateLimit.Enabled {
		limiter = r.limiter
	}
	generateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Limit:    r.cfg.Security.RateLimit.Limit,
		Window:   r.cfg.Security.RateLimit.Window,
		Endpoint: "generate-site",
	}, limiter, r.keyFn)

	RegisterAPIRoutes(r.engine.Group("/api"), r.site, generateLimit)
}
