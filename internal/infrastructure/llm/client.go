// Package llm 提供大模型客户端抽象与 OpenAI 兼容实现
package llm

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/meguminnnnnnnnn/go-openai"
)

// Request 一次补全调用的输入，参数为调用方固定的常量
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// CompletionClient 抽象大模型客户端，便于替换/Mock
type CompletionClient interface {
	// Complete 返回首个候选的文本；没有候选时返回空串和 nil
	Complete(ctx context.Context, req Request) (string, error)
}

// ProviderError 上游返回的带状态码错误
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StatusCode 从错误链中提取上游 HTTP 状态码
func StatusCode(err error) (int, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode > 0 {
		return pe.StatusCode, true
	}

	// Eino 适配器以 %w 透传 go-openai 的错误
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
