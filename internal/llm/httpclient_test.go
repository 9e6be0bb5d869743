package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
)

func completionServer(t *testing.T, handler func(req completionRequest) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test-key-123456", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func reply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func TestHTTPClient_Generate(t *testing.T) {
	srv := completionServer(t, func(req completionRequest) (int, string) {
		assert.Equal(t, "qwen-plus", req.Model)
		assert.Equal(t, 0.7, req.Temperature)
		assert.Equal(t, 4000, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "JavaFX")
		assert.Equal(t, "a login form", req.Messages[1].Content)
		return http.StatusOK, reply("```java\nimport javafx.scene.Scene;\npublic class Login {}\n```")
	})

	c := NewHTTPClient("sk-test-key-123456", WithEndpoint(srv.URL))
	code, err := c.Generate(context.Background(), "a login form")
	require.NoError(t, err)
	assert.Equal(t, "import javafx.scene.Scene;\npublic class Login {}", code)
}

func TestHTTPClient_GeneratePrependsImports(t *testing.T) {
	srv := completionServer(t, func(completionRequest) (int, string) {
		return http.StatusOK, reply("public class Bare extends Application {}")
	})

	code, err := NewHTTPClient("sk-test-key-123456", WithEndpoint(srv.URL)).Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "import javafx.application.Application;\n"))
	assert.True(t, strings.HasSuffix(code, "public class Bare extends Application {}"))
}

func TestHTTPClient_Chat(t *testing.T) {
	srv := completionServer(t, func(req completionRequest) (int, string) {
		assert.Equal(t, 0.3, req.Temperature)
		assert.Equal(t, 512, req.MaxTokens)
		return http.StatusOK, reply("  {\"tool\":\"time\"}\n")
	})

	out, err := NewHTTPClient("sk-test-key-123456", WithEndpoint(srv.URL)).Chat(context.Background(), "what time is it")
	require.NoError(t, err)
	assert.Equal(t, `{"tool":"time"}`, out)
	assert.True(t, IsToolCall(out))
}

func TestHTTPClient_ServiceErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
	}{
		{name: "auth", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`},
		{name: "rate limit", status: http.StatusTooManyRequests, body: "slow down", retryable: true},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "error payload", status: http.StatusOK, body: `{"error":{"code":"InvalidParameter","message":"nope"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := completionServer(t, func(completionRequest) (int, string) { return tt.status, tt.body })

			_, err := NewHTTPClient("sk-test-key-123456", WithEndpoint(srv.URL)).Chat(context.Background(), "hi")
			require.Error(t, err)
			var svc *fxerrors.ServiceError
			require.True(t, errors.As(err, &svc))
			assert.Equal(t, "chat", svc.Operation)
			assert.Equal(t, tt.retryable, svc.Retryable())
			assert.Equal(t, fxerrors.PhaseGenerate, fxerrors.PhaseOf(err))
		})
	}
}

func TestHTTPClient_MissingKey(t *testing.T) {
	_, err := NewHTTPClient("").Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is not configured")
}

func TestHTTPClient_GenerateVariants(t *testing.T) {
	var calls atomic.Int32
	srv := completionServer(t, func(req completionRequest) (int, string) {
		calls.Add(1)
		if strings.Contains(req.Messages[1].Content, "version 2.") {
			return http.StatusInternalServerError, "boom"
		}
		return http.StatusOK, reply("import a.B;\nclass V {}")
	})

	variants := NewHTTPClient("sk-test-key-123456", WithEndpoint(srv.URL)).GenerateVariants(context.Background(), "form", 3)
	require.Len(t, variants, 3)
	assert.Equal(t, int32(3), calls.Load())
	for i, v := range variants {
		assert.Equal(t, i+1, v.Index)
	}
	assert.NoError(t, variants[0].Err)
	assert.Error(t, variants[1].Err)
	assert.NoError(t, variants[2].Err)
}

func TestHTTPClient_MaskedAPIKey(t *testing.T) {
	assert.Equal(t, "sk-tes...3456", NewHTTPClient("sk-test-key-123456").MaskedAPIKey())
	assert.Equal(t, "*****", NewHTTPClient("short").MaskedAPIKey())
}
