package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"site-gen-ai-api/pkg/logger"
)

func TestTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tests := []struct {
		name      string
		withSpan  bool
		wantTrace bool
	}{
		{"sampled span", true, true},
		{"no span", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wantTraceID string
			var gotLogTrace any

			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.withSpan {
					ctx, span := tp.Tracer("test").Start(c.Request.Context(), "request")
					defer span.End()
					wantTraceID = span.SpanContext().TraceID().String()
					c.Request = c.Request.WithContext(ctx)
				}
				c.Next()
			})
			r.Use(TraceContext())
			r.GET("/x", func(c *gin.Context) {
				gotLogTrace = c.Request.Context().Value(logger.TraceIDKey)
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if tt.wantTrace {
				assert.Equal(t, wantTraceID, w.Header().Get("X-Trace-ID"))
				assert.Equal(t, wantTraceID, gotLogTrace)
			} else {
				assert.Empty(t, w.Header().Get("X-Trace-ID"))
				assert.Nil(t, gotLogTrace)
			}
		})
	}
}
