package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName 健康检查中报告的服务名
const ServiceName = "Site Generator AI"

// HealthChecker 可探测的依赖
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	store HealthChecker
	redis HealthChecker
}

// NewHealthHandler 创建健康检查处理器，redis 为 nil 表示未启用缓存
func NewHealthHandler(store HealthChecker, redis HealthChecker) *HealthHandler {
	return &HealthHandler{
		store: store,
		redis: redis,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Service:   ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready 就绪检查接口
// @Summary 就绪检查
// @Description 检查项目存储与缓存是否可用
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"store": {Status: "unknown"},
		"redis": {Status: "disabled"},
	}

	ready := true

	// 项目存储（必需）
	if h.store == nil {
		checks["store"].Status = "missing"
		checks["store"].Error = "project store not configured"
		ready = false
	} else {
		checks["store"] = probe(ctx, h.store)
		if checks["store"].Status != "ok" {
			ready = false
		}
	}

	// Redis（可选，故障时列表读取回退到存储）
	if h.redis != nil {
		checks["redis"] = probe(ctx, h.redis)
		if checks["redis"].Status != "ok" {
			checks["redis"].Status = "degraded"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Description 检查服务是否存活
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

func probe(ctx context.Context, checker HealthChecker) *readinessCheck {
	start := time.Now()
	err := checker.HealthCheck(ctx)
	check := &readinessCheck{
		Status:    "ok",
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		check.Status = "error"
		check.Error = err.Error()
	}
	return check
}
