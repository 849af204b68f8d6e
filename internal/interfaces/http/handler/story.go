// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ghost-story/internal/application/controller"
	"ghost-story/internal/interfaces/http/dto"
	apperrors "ghost-story/pkg/errors"
	"ghost-story/pkg/logger"
)

// StoryHandler 故事生成 API 处理器
type StoryHandler struct {
	gateway controller.StoryGateway
}

// NewStoryHandler 创建故事生成处理器
func NewStoryHandler(gateway controller.StoryGateway) *StoryHandler {
	return &StoryHandler{gateway: gateway}
}

// Generate 生成故事
// @Summary 生成鬼故事
// @Description 根据提示词生成一篇短篇鬼故事，失败时返回错误码与是否可重试
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.GenerateStoryRequest true "提示词"
// @Success 200 {object} entity.GenerationResult
// @Failure 400 {object} entity.GenerationResult
// @Failure 502 {object} entity.GenerationResult
// @Failure 504 {object} entity.GenerationResult
// @Router /v1/stories/generate [post]
func (h *StoryHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug(ctx, "invalid generate request body", "error", err.Error())
		dto.AbortWithFailure(c, apperrors.New(apperrors.CodeValidation, dto.MsgInvalidRequestBody))
		return
	}

	dto.StoryResult(c, h.gateway.Generate(ctx, req.Prompt))
}
