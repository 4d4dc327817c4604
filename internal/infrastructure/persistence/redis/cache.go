// Package redis 提供 Redis 缓存实现
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	apperrors "site-gen-ai-api/pkg/errors"
)

var cacheTracer = otel.Tracer("redis.cache")

// Cache 缓存服务
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache 创建缓存服务
func NewCache(client *Client) *Cache {
	return &Cache{
		client: client,
	}
}

// GetOrLoadSafe Read-Through 缓存，使用 singleflight 防止缓存击穿
// 返回值 hit 表示是否直接命中缓存
func (c *Cache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (any, error)) ([]byte, bool, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetOrLoadSafe",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	// 尝试从缓存获取
	val, err := c.client.rdb.Get(ctx, key).Bytes()
	if err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return val, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		span.RecordError(err)
		return nil, false, &CacheError{Op: "get", Err: err}
	}

	span.SetAttributes(attribute.Bool("cache.hit", false))

	// 使用 singleflight 合并并发请求
	// 加载结果由所有等待者共享，不随首个调用方取消
	result, err, shared := c.group.Do(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)

		// 再次检查缓存（可能已被其他请求填充）
		if val, err := c.client.rdb.Get(loadCtx, key).Bytes(); err == nil {
			return val, nil
		}

		data, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}

		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data: %w", err)
		}

		if err := c.client.rdb.Set(loadCtx, key, bytes, ttl).Err(); err != nil {
			// 缓存写入失败不影响返回结果
			span.RecordError(err)
		}
		return bytes, nil
	})

	span.SetAttributes(attribute.Bool("cache.shared", shared))

	if err != nil {
		span.RecordError(err)
		return nil, false, err
	}

	return result.([]byte), false, nil
}

// Version 读取计数器当前值，键不存在时为 0
func (c *Cache) Version(ctx context.Context, key string) (int64, error) {
	ver, err := c.client.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, &CacheError{Op: "version", Err: err}
	}
	return ver, nil
}

// Incr 递增计数器
func (c *Cache) Incr(ctx context.Context, key string) error {
	if err := c.client.rdb.Incr(ctx, key).Err(); err != nil {
		return &CacheError{Op: "incr", Err: err}
	}
	return nil
}

// Delete 删除缓存
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))))
	defer span.End()

	if err := c.client.rdb.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return &CacheError{Op: "delete", Err: err}
	}
	return nil
}

// CacheError Redis 访问失败
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// Is 使 CacheError 可按 CodeCacheError 匹配 apperrors.ErrCacheUnavailable
func (e *CacheError) Is(target error) bool {
	t, ok := target.(*apperrors.AppError)
	return ok && t != nil && t.Code == apperrors.CodeCacheError
}
