// Package wire 组装应用依赖
package wire

import (
	"context"
	"fmt"

	storyapp "ghost-story/internal/application/story"
	"ghost-story/internal/config"
	"ghost-story/internal/infrastructure/llm"
	"ghost-story/internal/interfaces/http/handler"
	"ghost-story/internal/interfaces/http/router"
	"ghost-story/internal/workflow/prompt"
	"ghost-story/pkg/logger"
)

// InitializeApp 构建 HTTP 路由器及其全部依赖
func InitializeApp(ctx context.Context, cfg *config.Config, version string) (*router.Router, func(), error) {
	gateway, err := ProvideStoryGateway(cfg)
	if err != nil {
		return nil, nil, err
	}

	credential := cfg.LLM.Credential
	if credential() == "" {
		logger.Warn(ctx, "llm api key not configured; generation requests will fail until it is set",
			"env", cfg.LLM.APIKeyEnv,
		)
	}

	r, err := router.NewWithDeps(cfg, router.RouterHandlers{
		Health: handler.NewHealthHandler(version, credential),
		Story:  handler.NewStoryHandler(gateway),
		Page:   handler.NewPageHandler(gateway, cfg.Generation.SlowWarningAfter),
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		logger.Info(ctx, "application resources released")
	}
	return r, cleanup, nil
}

// ProvideStoryGateway 创建故事生成网关
func ProvideStoryGateway(cfg *config.Config) (*storyapp.Gateway, error) {
	factory, err := llm.NewFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm factory: %w", err)
	}

	return storyapp.NewGateway(factory, cfg.LLM.Credential, prompt.NewRegistry(), storyapp.Options{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.Generation.Timeout,
	})
}
