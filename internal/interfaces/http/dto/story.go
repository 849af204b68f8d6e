package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ghost-story/internal/domain/entity"
	apperrors "ghost-story/pkg/errors"
)

// MsgInvalidRequestBody 请求体无法解析
const MsgInvalidRequestBody = "Invalid request body"

// GenerateStoryRequest 生成故事请求
type GenerateStoryRequest struct {
	Prompt string `json:"prompt"`
}

// StatusFor 结果对应的 HTTP 状态码
func StatusFor(res entity.GenerationResult) int {
	if res.IsSuccess() {
		return http.StatusOK
	}
	return apperrors.HTTPStatus(res.Code)
}

// StoryResult 写出生成结果联合体
func StoryResult(c *gin.Context, res entity.GenerationResult) {
	c.JSON(StatusFor(res), res)
}

// AbortWithFailure 以失败结果终止请求；状态码取自错误本身
func AbortWithFailure(c *gin.Context, err *apperrors.AppError) {
	res := entity.Failure(err)
	status := err.HTTPStatus
	if status == 0 {
		status = StatusFor(res)
	}
	c.AbortWithStatusJSON(status, res)
}
