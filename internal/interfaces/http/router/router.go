// Package router 提供 HTTP 路由配置
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ghost-story/internal/config"
	"ghost-story/internal/interfaces/http/handler"
	"ghost-story/internal/interfaces/http/middleware"
	"ghost-story/internal/interfaces/http/web"
)

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers RouterHandlers
}

// RouterHandlers 路由依赖的处理器集合
type RouterHandlers struct {
	Health *handler.HealthHandler
	Story  *handler.StoryHandler
	Page   *handler.PageHandler
}

// NewWithDeps 创建路由器并注册全部路由
func NewWithDeps(cfg *config.Config, handlers RouterHandlers) (*Router, error) {
	if handlers.Health == nil || handlers.Story == nil || handlers.Page == nil {
		return nil, fmt.Errorf("router handlers not fully configured")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r, nil
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
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	RegisterPageRoutes(r.engine, r.handlers.Page)
	RegisterV1Routes(r.engine.Group("/v1"), r.handlers.Story)
}
