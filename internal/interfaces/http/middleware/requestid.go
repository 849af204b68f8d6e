// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ghost-story/pkg/logger"
)

const (
	// RequestIDHeader 请求 ID 头
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 64
)

// RequestID 请求 ID 注入中间件；缺失或过长的请求头会被替换为新 UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 尝试从请求头获取
		requestID := c.GetHeader(RequestIDHeader)

		// 如果没有或超长则生成新的
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		// 设置到 Gin Context
		c.Set("request_id", requestID)

		// 设置到 Logger Context
		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		// 设置响应头
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
