package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"site-gen-ai-api/pkg/logger"
	"site-gen-ai-api/pkg/tracer"
)

// Trace OpenTelemetry 追踪中间件
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceContext 将 trace_id/span_id 注入日志上下文与响应头，并为 span 标注请求 ID
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if traceID := tracer.TraceID(c.Request.Context()); traceID != "" {
			spanID := tracer.SpanID(c.Request.Context())

			c.Set("trace_id", traceID)
			c.Set("span_id", spanID)

			ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
			c.Request = c.Request.WithContext(ctx)

			if requestID := c.GetString("request_id"); requestID != "" {
				trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", requestID))
			}

			c.Header("X-Trace-ID", traceID)
		}

		c.Next()
	}
}
