package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_DefaultsWithoutFiles(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ghost-story", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.InDelta(t, 0.8, cfg.LLM.Temperature, 1e-9)
	assert.InDelta(t, 0.9, cfg.LLM.TopP, 1e-9)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, 25*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Generation.SlowWarningAfter)
	assert.Equal(t, "/metrics", cfg.Observability.Metrics.Path)
}

func TestLoadFrom_FileEnvOverlayAndExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "staging")
	t.Setenv("GHOST_TEST_MODEL", "gpt-4o-mini")

	base := `
llm:
  model: ${GHOST_TEST_MODEL:gpt-3.5-turbo}
  temperature: 0.5
server:
  http:
    port: 9000
`
	overlay := `
server:
  http:
    port: 9100
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte(overlay), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.InDelta(t, 0.5, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 9100, cfg.Server.HTTP.Port)
}

func TestLoadFrom_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("GENERATION_TIMEOUT", "5s")
	t.Setenv("LLM_BASE_URL", "http://localhost:1234/v1")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "http://localhost:1234/v1", cfg.LLM.BaseURL)
}

func TestLoadFrom_RejectsUnsupportedProvider(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("LLM_PROVIDER", "parrot")

	_, err := LoadFrom(t.TempDir())
	assert.ErrorContains(t, err, "not supported")
}

func TestValidate_DeepseekNeedsBaseURL(t *testing.T) {
	cfg := &Config{
		LLM:        LLMConfig{Provider: "deepseek", Model: "deepseek-chat"},
		Generation: GenerationConfig{Timeout: time.Second},
	}
	assert.ErrorContains(t, cfg.Validate(), "base_url")

	cfg.LLM.BaseURL = "https://api.deepseek.com/v1"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_AcceptsOpenAISDKProvider(t *testing.T) {
	cfg := &Config{
		LLM:        LLMConfig{Provider: "openai-sdk", Model: "gpt-3.5-turbo"},
		Generation: GenerationConfig{Timeout: time.Second},
	}
	assert.NoError(t, cfg.Validate())
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("GHOST_SET", "value")

	assert.Equal(t, "a=value", expandEnv("a=${GHOST_SET}"))
	assert.Equal(t, "b=fallback", expandEnv("b=${GHOST_UNSET_FOR_TEST:fallback}"))
	assert.Equal(t, "c=${GHOST_UNSET_FOR_TEST}", expandEnv("c=${GHOST_UNSET_FOR_TEST}"))
}

func TestLLMConfig_Credential(t *testing.T) {
	cfg := LLMConfig{APIKeyEnv: "GHOST_TEST_KEY", APIKey: "from-file"}

	t.Setenv("GHOST_TEST_KEY", "")
	assert.Equal(t, "from-file", cfg.Credential())

	t.Setenv("GHOST_TEST_KEY", "  sk-env  ")
	assert.Equal(t, "sk-env", cfg.Credential())

	assert.Empty(t, LLMConfig{APIKeyEnv: "GHOST_TEST_MISSING_KEY"}.Credential())
}
