package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	goopenai "github.com/meguminnnnnnnnn/go-openai"

	"ghost-story/pkg/metrics"
)

// EinoSettings Eino ChatModel 的构造参数
type EinoSettings struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// EinoClient 基于 Eino OpenAI 适配器实现 CompletionClient
type EinoClient struct {
	provider string
	model    model.BaseChatModel
}

// NewEinoClient 创建 Eino ChatModel 客户端
func NewEinoClient(ctx context.Context, s EinoSettings) (*EinoClient, error) {
	if s.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	provider := s.Provider
	if provider == "" {
		provider = "openai"
	}

	cfg := &openai.ChatModelConfig{
		APIKey:  s.APIKey,
		BaseURL: s.BaseURL,
		Model:   s.Model,
	}
	if s.MaxTokens > 0 {
		cfg.MaxTokens = &s.MaxTokens
	}
	if s.Temperature > 0 {
		cfg.Temperature = ptrFloat32(float32(s.Temperature))
	}
	if s.TopP > 0 {
		cfg.TopP = ptrFloat32(float32(s.TopP))
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &EinoClient{provider: provider, model: chatModel}, nil
}

// Complete 发送 system + user 两条消息并返回首个候选内容
func (e *EinoClient) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	// 单次请求参数覆盖构造时的默认值
	opts := []model.Option{
		model.WithTemperature(float32(req.Temperature)),
		model.WithTopP(float32(req.TopP)),
	}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	msg, err := e.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(req.System),
		schema.UserMessage(req.User),
	}, opts...)

	metrics.LLMCallDuration.WithLabelValues(e.provider, req.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		// 上游无候选：与空内容同等处理
		if strings.Contains(err.Error(), "empty choices") {
			metrics.LLMCallTotal.WithLabelValues(e.provider, req.Model, "success").Inc()
			return "", nil
		}
		metrics.LLMCallTotal.WithLabelValues(e.provider, req.Model, "error").Inc()
		if status, ok := StatusCode(err); ok {
			return "", &ProviderError{
				Provider:   e.provider,
				StatusCode: status,
				Message:    apiMessage(err),
				Err:        err,
			}
		}
		return "", err
	}

	metrics.LLMCallTotal.WithLabelValues(e.provider, req.Model, "success").Inc()
	if msg == nil {
		return "", nil
	}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		usage := msg.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(e.provider, req.Model, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(e.provider, req.Model, "completion").Add(float64(usage.CompletionTokens))
	}
	return msg.Content, nil
}

// apiMessage 提取 go-openai 错误里的上游描述
func apiMessage(err error) string {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func ptrFloat32(f float32) *float32 {
	return &f
}
