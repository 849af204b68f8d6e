// Package client 提供故事生成 HTTP API 的客户端
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ghost-story/internal/domain/entity"
	"ghost-story/internal/interfaces/http/dto"
)

// DefaultTimeout 高于服务端 25s 截止时间，让服务端的 TIMEOUT 结果先到达
const DefaultTimeout = 30 * time.Second

const (
	generatePath = "/v1/stories/generate"
	maxBodyBytes = 1 << 20
)

// StoryClient 故事生成 API 客户端
type StoryClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option 客户端选项
type Option func(*StoryClient)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *StoryClient) {
		c.httpClient = hc
	}
}

// WithTimeout 设置单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *StoryClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New 创建客户端
func New(baseURL string, opts ...Option) (*StoryClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("server url is required")
	}
	c := &StoryClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate 调用生成接口；服务端返回的失败结果不视为 error
func (c *StoryClient) Generate(ctx context.Context, prompt string) (entity.GenerationResult, error) {
	payload, err := json.Marshal(dto.GenerateStoryRequest{Prompt: prompt})
	if err != nil {
		return entity.GenerationResult{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return entity.GenerationResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.GenerationResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return entity.GenerationResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	var res entity.GenerationResult
	if err := json.Unmarshal(body, &res); err != nil {
		return entity.GenerationResult{}, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	return res, nil
}
