package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version    string
	credential func() string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(version string, credential func() string) *HealthHandler {
	return &HealthHandler{
		version:    version,
		credential: credential,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
// 未配置 API Key 时服务仍可响应，但每次生成都会失败，因此不就绪
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]*readinessCheck{
		"llm_credential": {Status: "ok"},
	}

	ready := true
	if h.credential == nil || h.credential() == "" {
		checks["llm_credential"].Status = "missing"
		checks["llm_credential"].Error = "llm api key not configured"
		ready = false
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
