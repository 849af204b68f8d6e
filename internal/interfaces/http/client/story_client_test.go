package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-story/internal/application/controller"
	"ghost-story/internal/domain/entity"
	apperrors "ghost-story/pkg/errors"
)

var _ controller.Generator = (*StoryClient)(nil)

func TestGenerate_DecodesStory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stories/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abandoned house", body["prompt"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"story":"The floor remembered."}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	require.NoError(t, err)

	res, err := c.Generate(context.Background(), "abandoned house")
	require.NoError(t, err)
	assert.Equal(t, entity.Success("The floor remembered."), res)
}

func TestGenerate_FailureStatusStillDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
		_, _ = w.Write([]byte(`{"error":"slow","code":"TIMEOUT","retryable":true}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	res, err := c.Generate(context.Background(), "abandoned house")
	require.NoError(t, err)
	assert.Equal(t, apperrors.CodeTimeout, res.Code)
	assert.True(t, res.Retryable)
}

func TestGenerate_UndecodableBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "abandoned house")
	assert.ErrorContains(t, err, "status 502")
	assert.Equal(t, controller.MsgUnexpected, controller.DescribeFailure(err))
}

func TestGenerate_ConnectionRefusedIsNetworkFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c, err := New("http://" + addr)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "abandoned house")
	require.Error(t, err)
	assert.Equal(t, controller.MsgNetworkFailure, controller.DescribeFailure(err))
}

func TestGenerate_ClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "abandoned house")
	require.Error(t, err)
	var netErr net.Error
	assert.True(t, errors.As(err, &netErr) && netErr.Timeout())
	assert.Equal(t, controller.MsgTimedOut, controller.DescribeFailure(err))
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}
