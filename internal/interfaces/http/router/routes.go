package router

import (
	"github.com/gin-gonic/gin"

	"ghost-story/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本 API 路由
func RegisterV1Routes(v1 *gin.RouterGroup, storyHandler *handler.StoryHandler) {
	stories := v1.Group("/stories")
	{
		stories.POST("/generate", storyHandler.Generate)
	}
}

// RegisterPageRoutes 注册服务端渲染页面路由
func RegisterPageRoutes(engine *gin.Engine, pageHandler *handler.PageHandler) {
	engine.GET("/", pageHandler.Index)
	engine.POST("/", pageHandler.Submit)
	engine.POST("/retry", pageHandler.Retry)
}
