package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"site-gen-ai-api/internal/domain/entity"
	"site-gen-ai-api/internal/domain/repository"
	apperrors "site-gen-ai-api/pkg/errors"
	"site-gen-ai-api/pkg/logger"
	"site-gen-ai-api/pkg/metrics"
)

const (
	// ProjectListCacheKey 项目列表缓存键前缀，实际键附带版本号
	ProjectListCacheKey = "site_gen:projects:list"
	// ProjectListVersionKey 项目列表版本计数器
	ProjectListVersionKey = "site_gen:projects:ver"
)

// ProjectListKey 返回指定版本的项目列表缓存键
func ProjectListKey(ver int64) string {
	return ProjectListCacheKey + ":" + strconv.FormatInt(ver, 10)
}

// CachedProjectRepository 为项目列表提供读穿缓存
// 新项目写入后递增版本号，加载中的旧快照只会写入旧版本的键
// Redis 故障时直接回退到底层仓储
type CachedProjectRepository struct {
	inner repository.ProjectRepository
	cache *Cache
	ttl   time.Duration
}

var _ repository.ProjectRepository = (*CachedProjectRepository)(nil)

// NewCachedProjectRepository 创建带缓存的项目仓储
func NewCachedProjectRepository(inner repository.ProjectRepository, cache *Cache, ttl time.Duration) *CachedProjectRepository {
	return &CachedProjectRepository{inner: inner, cache: cache, ttl: ttl}
}

// Save 写入底层仓储，新建项目时递增列表版本
func (r *CachedProjectRepository) Save(ctx context.Context, category entity.SiteCategory, prefs entity.PreferenceSet, code string) (*repository.SaveResult, error) {
	res, err := r.inner.Save(ctx, category, prefs, code)
	if err != nil {
		return nil, err
	}
	if !res.Duplicate {
		if err := r.cache.Incr(ctx, ProjectListVersionKey); err != nil {
			logger.Warn(ctx, "failed to invalidate project list cache", "error", err.Error())
		}
	}
	return res, nil
}

// ListAll 优先读取缓存
func (r *CachedProjectRepository) ListAll(ctx context.Context) ([]*entity.SiteProject, error) {
	ver, err := r.cache.Version(ctx, ProjectListVersionKey)
	if err != nil {
		return r.fallback(ctx, err)
	}

	key := ProjectListKey(ver)
	data, hit, err := r.cache.GetOrLoadSafe(ctx, key, r.ttl, func(ctx context.Context) (any, error) {
		return r.inner.ListAll(ctx)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrCacheUnavailable) {
			return nil, err
		}
		return r.fallback(ctx, err)
	}

	var projects []*entity.SiteProject
	if err := json.Unmarshal(data, &projects); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "discarding undecodable project list cache", "error", err.Error())
		_ = r.cache.Delete(ctx, key)
		return r.inner.ListAll(ctx)
	}

	if hit {
		metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
	}
	if projects == nil {
		projects = []*entity.SiteProject{}
	}
	return projects, nil
}

func (r *CachedProjectRepository) fallback(ctx context.Context, err error) ([]*entity.SiteProject, error) {
	metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
	logger.Warn(ctx, "project list cache unavailable, reading store directly", "error", err.Error())
	return r.inner.ListAll(ctx)
}

// HealthCheck 检查底层仓储
func (r *CachedProjectRepository) HealthCheck(ctx context.Context) error {
	if hc, ok := r.inner.(repository.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
