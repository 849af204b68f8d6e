package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"ghost-story/pkg/logger"
	"ghost-story/pkg/metrics"
	"ghost-story/pkg/tracer"
)

// TraceIDHeader 追踪 ID 响应头
const TraceIDHeader = "X-Trace-ID"

// Trace OpenTelemetry 追踪中间件
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceContext 把 trace_id/span_id 写入 gin 与日志上下文
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if traceID := tracer.TraceID(ctx); traceID != "" {
			spanID := tracer.SpanID(ctx)

			c.Set("trace_id", traceID)
			c.Set("span_id", spanID)

			ctx = logger.WithContext(ctx, logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
			c.Request = c.Request.WithContext(ctx)
			c.Header(TraceIDHeader, traceID)
		}

		c.Next()
	}
}

// Metrics Prometheus 指标采集中间件；未匹配路由统一记为 unmatched
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		// 记录请求大小
		if size := c.Request.ContentLength; size > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(size))
		}

		c.Next()

		// 请求完成后记录指标
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
