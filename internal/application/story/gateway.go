// Package story 提供故事生成网关：校验提示词、带截止时间调用上游模型、归类失败
package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ghost-story/internal/domain/entity"
	"ghost-story/internal/infrastructure/llm"
	"ghost-story/internal/workflow/prompt"
	apperrors "ghost-story/pkg/errors"
	"ghost-story/pkg/logger"
	"ghost-story/pkg/metrics"
	"ghost-story/pkg/tracer"
)

// DefaultTimeout 单次生成的截止时间
const DefaultTimeout = 25 * time.Second

// ClientProvider 根据 API Key 提供补全客户端
type ClientProvider interface {
	Client(ctx context.Context, apiKey string) (llm.CompletionClient, error)
}

// CredentialFunc 每次调用时读取 API Key
type CredentialFunc func() string

// Options 上游调用的固定参数
type Options struct {
	Provider    string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOptions 返回默认生成参数
func DefaultOptions() Options {
	return Options{
		Provider:    "openai",
		Model:       "gpt-3.5-turbo",
		Temperature: 0.8,
		TopP:        0.9,
		MaxTokens:   1000,
		Timeout:     DefaultTimeout,
	}
}

// Gateway 故事生成网关
type Gateway struct {
	clients    ClientProvider
	credential CredentialFunc
	prompts    *prompt.Registry
	opts       Options
}

// NewGateway 创建故事生成网关
func NewGateway(clients ClientProvider, credential CredentialFunc, prompts *prompt.Registry, opts Options) (*Gateway, error) {
	if clients == nil {
		return nil, fmt.Errorf("llm client provider not configured")
	}
	if credential == nil {
		return nil, fmt.Errorf("credential source not configured")
	}
	if prompts == nil {
		prompts = prompt.NewRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Gateway{
		clients:    clients,
		credential: credential,
		prompts:    prompts,
		opts:       opts,
	}, nil
}

// Generate 把提示词转换为故事或结构化错误，不返回 Go error
func (g *Gateway) Generate(ctx context.Context, promptText string) entity.GenerationResult {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "story.generate")
	defer span.End()
	span.SetAttributes(attribute.Int("story.prompt_length", entity.PromptLength(promptText)))

	result := g.generate(ctx, promptText)

	label := result.ResultLabel()
	metrics.StoryGenerationTotal.WithLabelValues(label).Inc()
	metrics.StoryGenerationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("story.result", label))
	if result.IsSuccess() {
		metrics.StoryWordCount.Observe(float64(wordCount(result.Story)))
	} else {
		span.SetStatus(codes.Error, result.Error)
	}

	return result
}

func (g *Gateway) generate(ctx context.Context, promptText string) entity.GenerationResult {
	if appErr := ValidatePrompt(promptText); appErr != nil {
		logger.Debug(ctx, "prompt rejected", "reason", appErr.Message, "length", entity.PromptLength(promptText))
		return entity.Failure(appErr)
	}

	apiKey := g.credential()
	if apiKey == "" {
		logger.Error(ctx, "llm api key not configured", nil, "provider", g.opts.Provider)
		return entity.Failure(apperrors.New(apperrors.CodeAPI, msgUnavailable))
	}

	client, err := g.clients.Client(ctx, apiKey)
	if err != nil {
		logger.Error(ctx, "failed to create llm client", err, "provider", g.opts.Provider)
		return entity.Failure(apperrors.Wrap(err, apperrors.CodeAPI, msgUnavailable))
	}

	msgs, err := g.prompts.Build(prompt.PromptGhostStoryV1, promptText)
	if err != nil {
		logger.Error(ctx, "failed to build prompt", err)
		return entity.Failure(apperrors.Wrap(err, apperrors.CodeUnknown, msgUnexpectedError))
	}

	start := time.Now()
	text, err := g.race(ctx, client, llm.Request{
		Model:       g.opts.Model,
		System:      msgs.System,
		User:        msgs.User,
		Temperature: g.opts.Temperature,
		TopP:        g.opts.TopP,
		MaxTokens:   g.opts.MaxTokens,
	})
	elapsed := time.Since(start)

	if err != nil {
		appErr := classifyFailure(err)
		status, _ := llm.StatusCode(err)
		logArgs := []any{
			"code", appErr.Code,
			"provider_status", status,
			"duration_ms", elapsed.Milliseconds(),
			"prompt", promptPreview(promptText),
		}
		if appErr.Detail != "" {
			logArgs = append(logArgs, "detail", appErr.Detail)
		}
		logger.Error(ctx, "story generation failed", err, logArgs...)
		return entity.Failure(appErr)
	}

	story := strings.TrimSpace(text)
	if story == "" {
		logger.Warn(ctx, "llm returned empty content", "duration_ms", elapsed.Milliseconds())
		return entity.Failure(apperrors.New(apperrors.CodeAPI, msgGenerateFailed))
	}

	logger.Info(ctx, "story generated",
		"duration_ms", elapsed.Milliseconds(),
		"words", wordCount(story),
		"prompt", promptPreview(promptText),
	)
	return entity.Success(story)
}

// 放弃上游调用的原因（指标标签）
const (
	AbandonDeadline = "deadline"
	AbandonCanceled = "canceled"
)

type completion struct {
	text string
	err  error
}

// race 上游响应与截止时间先到者胜出；输掉的调用被取消，其结果直接丢弃
func (g *Gateway) race(ctx context.Context, client llm.CompletionClient, req llm.Request) (string, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		text, err := client.Complete(callCtx, req)
		done <- completion{text: text, err: err}
	}()

	timer := time.NewTimer(g.opts.Timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.text, out.err
	case <-timer.C:
		metrics.LLMCallsAbandoned.WithLabelValues(AbandonDeadline).Inc()
		return "", ErrDeadlineExceeded
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			metrics.LLMCallsAbandoned.WithLabelValues(AbandonDeadline).Inc()
			return "", ErrDeadlineExceeded
		}
		metrics.LLMCallsAbandoned.WithLabelValues(AbandonCanceled).Inc()
		return "", ctx.Err()
	}
}
