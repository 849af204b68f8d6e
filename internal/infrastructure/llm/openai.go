package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"ghost-story/pkg/metrics"
)

// Settings 提供给具体实现的基础配置
type Settings struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// OpenAIClient 使用官方 openai-go SDK（chat completions）实现 CompletionClient
type OpenAIClient struct {
	provider string
	client   openai.Client
}

// NewOpenAIClient 创建客户端；SDK 自带重试被关闭，每次生成只发一次请求
func NewOpenAIClient(s Settings) (*OpenAIClient, error) {
	if s.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	provider := s.Provider
	if provider == "" {
		provider = "openai"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}

	return &OpenAIClient{
		provider: provider,
		client:   openai.NewClient(opts...),
	}, nil
}

// Complete 发送 system + user 两条消息并返回首个候选内容
func (o *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
		TopP:        openai.Float(req.TopP),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	})

	metrics.LLMCallDuration.WithLabelValues(o.provider, req.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(o.provider, req.Model, "error").Inc()
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &ProviderError{
				Provider:   o.provider,
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Message,
				Err:        err,
			}
		}
		return "", err
	}

	metrics.LLMCallTotal.WithLabelValues(o.provider, req.Model, "success").Inc()
	metrics.LLMTokensUsed.WithLabelValues(o.provider, req.Model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(o.provider, req.Model, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
