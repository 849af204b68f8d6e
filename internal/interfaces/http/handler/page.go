package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ghost-story/internal/application/controller"
	"ghost-story/internal/domain/entity"
	"ghost-story/internal/interfaces/http/web"
	"ghost-story/pkg/logger"
)

// PageHandler 服务端渲染页面；每个请求使用独立的控制器，重试所需状态由隐藏字段携带
type PageHandler struct {
	gateway     controller.StoryGateway
	slowWarning time.Duration
}

// NewPageHandler 创建页面处理器
func NewPageHandler(gateway controller.StoryGateway, slowWarning time.Duration) *PageHandler {
	if slowWarning <= 0 {
		slowWarning = controller.SlowWarningDelay
	}
	return &PageHandler{gateway: gateway, slowWarning: slowWarning}
}

type pageView struct {
	Prompt            string
	Count             int
	MaxLength         int
	FormError         string
	Error             string
	Retryable         bool
	LastPrompt        string
	Story             string
	Paragraphs        []string
	SlowWarningMillis int64
}

// Index 空表单
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, controller.Snapshot{State: controller.Idle}, "", "")
}

// Submit 提交表单
func (h *PageHandler) Submit(c *gin.Context) {
	prompt := c.PostForm("prompt")

	ctrl := h.newController()
	defer ctrl.Close()

	snap, err := ctrl.Submit(c.Request.Context(), prompt)
	if err != nil {
		h.render(c, http.StatusUnprocessableEntity, snap, prompt, err.Error())
		return
	}
	h.render(c, http.StatusOK, snap, prompt, "")
}

// Retry 以隐藏字段中的上次提示词重新生成
func (h *PageHandler) Retry(c *gin.Context) {
	lastPrompt := c.PostForm("last_prompt")
	lastError := c.PostForm("last_error")

	ctrl := h.newController()
	defer ctrl.Close()

	restoreErr := ctrl.Restore(controller.Snapshot{
		State: controller.Failed,
		SessionState: controller.SessionState{
			Error:      &lastError,
			LastPrompt: lastPrompt,
			Retryable:  true,
		},
	})
	if restoreErr != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	snap, err := ctrl.Retry(c.Request.Context())
	if err != nil {
		if !errors.Is(err, controller.ErrNothingToRetry) {
			logger.Warn(c.Request.Context(), "page retry rejected", "error", err.Error())
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render(c, http.StatusOK, snap, lastPrompt, "")
}

func (h *PageHandler) newController() *controller.Controller {
	return controller.New(controller.Local(h.gateway))
}

func (h *PageHandler) render(c *gin.Context, status int, snap controller.Snapshot, prompt, formError string) {
	view := pageView{
		Prompt:            prompt,
		Count:             entity.PromptLength(prompt),
		MaxLength:         entity.MaxPromptLength,
		FormError:         formError,
		LastPrompt:        snap.LastPrompt,
		Retryable:         snap.Retryable,
		SlowWarningMillis: h.slowWarning.Milliseconds(),
	}
	if snap.Error != nil {
		view.Error = *snap.Error
	}
	if snap.CurrentStory != nil {
		view.Story = *snap.CurrentStory
		view.Paragraphs = paragraphs(view.Story)
	}
	c.HTML(status, web.IndexTemplate, view)
}

// paragraphs 按空行切分故事正文
func paragraphs(story string) []string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(story, "\r\n", "\n"), "\n\n") {
		if p := strings.TrimSpace(block); p != "" {
			out = append(out, p)
		}
	}
	return out
}
