// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"site-gen-ai-api/internal/interfaces/http/dto"
	"site-gen-ai-api/pkg/errors"
	"site-gen-ai-api/pkg/logger"
)

// Recovery Panic 恢复中间件，响应沿用统一错误结构
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", r),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.Abort()
				if !c.Writer.Written() {
					dto.InternalError(c, errors.ErrInternalError.Message)
				}
			}
		}()

		c.Next()
	}
}
