package llm

import (
	"context"
	"fmt"
	"sync"

	"ghost-story/internal/config"
)

// BuildFunc 根据 API Key 构造客户端
type BuildFunc func(ctx context.Context, apiKey string) (CompletionClient, error)

// Factory 按 API Key 缓存客户端实例；Key 每次调用时读取，轮换后惰性重建
type Factory struct {
	build   BuildFunc
	clients map[string]CompletionClient
	mu      sync.RWMutex
}

// NewFactory 创建 LLM 工厂；openai/deepseek 走 Eino ChatModel，openai-sdk 走官方 SDK
func NewFactory(cfg *config.Config) (*Factory, error) {
	llmCfg := cfg.LLM
	switch llmCfg.Provider {
	case "openai", "deepseek":
		return NewFactoryWithBuilder(func(ctx context.Context, apiKey string) (CompletionClient, error) {
			// 使用 Eino 的 OpenAI 适配器
			return NewEinoClient(ctx, EinoSettings{
				Provider:    llmCfg.Provider,
				APIKey:      apiKey,
				BaseURL:     llmCfg.BaseURL,
				Model:       llmCfg.Model,
				Temperature: llmCfg.Temperature,
				TopP:        llmCfg.TopP,
				MaxTokens:   llmCfg.MaxTokens,
			})
		}), nil
	case "openai-sdk":
		return NewFactoryWithBuilder(func(_ context.Context, apiKey string) (CompletionClient, error) {
			return NewOpenAIClient(Settings{Provider: llmCfg.Provider, APIKey: apiKey, BaseURL: llmCfg.BaseURL})
		}), nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", llmCfg.Provider)
	}
}

// NewFactoryWithBuilder 使用自定义构造函数创建工厂
func NewFactoryWithBuilder(build BuildFunc) *Factory {
	return &Factory{
		build:   build,
		clients: make(map[string]CompletionClient),
	}
}

// Client 获取指定 API Key 对应的客户端
func (f *Factory) Client(ctx context.Context, apiKey string) (CompletionClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is empty")
	}

	f.mu.RLock()
	c, ok := f.clients[apiKey]
	f.mu.RUnlock()
	if ok {
		return c, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if c, ok = f.clients[apiKey]; ok {
		return c, nil
	}

	c, err := f.build(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	f.clients[apiKey] = c
	return c, nil
}
