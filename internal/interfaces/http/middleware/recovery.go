package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"ghost-story/internal/interfaces/http/dto"
	apperrors "ghost-story/pkg/errors"
	"ghost-story/pkg/logger"
)

const msgUnexpected = "An unexpected error occurred. Please try again."

// Recovery Panic 恢复中间件；堆栈只写日志，响应体为 UNKNOWN 失败结果
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				// 记录错误日志，堆栈只进日志
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				// 返回 UNKNOWN 失败结果
				dto.AbortWithFailure(c, apperrors.New(apperrors.CodeUnknown, msgUnexpected))
			}
		}()

		c.Next()
	}
}
