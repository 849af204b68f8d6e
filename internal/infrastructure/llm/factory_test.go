package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-story/internal/config"
)

type stubClient struct{ key string }

func (s *stubClient) Complete(context.Context, Request) (string, error) { return s.key, nil }

func TestFactory_CachesPerKey(t *testing.T) {
	var mu sync.Mutex
	builds := map[string]int{}
	f := NewFactoryWithBuilder(func(_ context.Context, apiKey string) (CompletionClient, error) {
		mu.Lock()
		builds[apiKey]++
		mu.Unlock()
		return &stubClient{key: apiKey}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := f.Client(context.Background(), "sk-a")
			assert.NoError(t, err)
			assert.NotNil(t, c)
		}()
	}
	wg.Wait()

	rotated, err := f.Client(context.Background(), "sk-b")
	require.NoError(t, err)
	text, _ := rotated.Complete(context.Background(), Request{})
	assert.Equal(t, "sk-b", text)

	assert.Equal(t, 1, builds["sk-a"])
	assert.Equal(t, 1, builds["sk-b"])
}

func TestFactory_BuildError(t *testing.T) {
	f := NewFactoryWithBuilder(func(context.Context, string) (CompletionClient, error) {
		return nil, errors.New("bad base url")
	})
	_, err := f.Client(context.Background(), "sk")
	assert.ErrorContains(t, err, "bad base url")

	_, err = f.Client(context.Background(), "")
	assert.Error(t, err)
}

func TestNewFactory_ProviderSelection(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{Provider: "openai"}}
	f, err := NewFactory(cfg)
	require.NoError(t, err)

	c, err := f.Client(context.Background(), "sk-live")
	require.NoError(t, err)
	assert.IsType(t, &EinoClient{}, c)

	cfg.LLM.Provider = "deepseek"
	cfg.LLM.BaseURL = "https://api.deepseek.com/v1"
	f, err = NewFactory(cfg)
	require.NoError(t, err)
	c, err = f.Client(context.Background(), "sk-live")
	require.NoError(t, err)
	assert.IsType(t, &EinoClient{}, c)

	cfg.LLM.Provider = "openai-sdk"
	f, err = NewFactory(cfg)
	require.NoError(t, err)
	c, err = f.Client(context.Background(), "sk-live")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	cfg.LLM.Provider = "parrot"
	_, err = NewFactory(cfg)
	assert.Error(t, err)
}
