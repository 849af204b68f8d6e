package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(Settings{APIKey: "sk-test", BaseURL: baseURL + "/v1/"})
	require.NoError(t, err)
	return c
}

var testRequest = Request{
	Model:       "gpt-3.5-turbo",
	System:      "You are a master horror storyteller.",
	User:        "abandoned house",
	Temperature: 0.8,
	TopP:        0.9,
	MaxTokens:   1000,
}

func TestOpenAIClient_Complete_SendsFixedParameters(t *testing.T) {
	var got capturedRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-3.5-turbo",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "  The floorboards whispered.  "}}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 300, "total_tokens": 340}
		}`))
	})

	text, err := newTestClient(t, srv.URL).Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "  The floorboards whispered.  ", text)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.InDelta(t, 0.8, got.Temperature, 1e-9)
	assert.InDelta(t, 0.9, got.TopP, 1e-9)
	assert.Equal(t, 1000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, testRequest.System, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "abandoned house", got.Messages[1].Content)
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"gpt-3.5-turbo","choices":[]}`))
	})

	text, err := newTestClient(t, srv.URL).Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpenAIClient_Complete_StatusErrorsAreNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls atomic.Int32
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"test","param":null,"code":"test"}}`))
			})

			_, err := newTestClient(t, srv.URL).Complete(context.Background(), testRequest)
			require.Error(t, err)

			code, ok := StatusCode(err)
			require.True(t, ok)
			assert.Equal(t, status, code)
			assert.Equal(t, int32(1), calls.Load())

			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "openai", pe.Provider)
		})
	}
}

func TestOpenAIClient_Complete_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(t, addr).Complete(context.Background(), testRequest)
	require.Error(t, err)

	_, hasStatus := StatusCode(err)
	assert.False(t, hasStatus)

	var opErr *net.OpError
	assert.True(t, errors.As(err, &opErr))
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Settings{})
	assert.Error(t, err)
}
