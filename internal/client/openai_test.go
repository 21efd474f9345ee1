package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chatagent/chatagent-go/internal/config"
	"github.com/chatagent/chatagent-go/internal/model"
	"go.uber.org/zap"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default().OpenAI
	cfg.APIKey = "sk-test"
	cfg.BaseURL = server.URL + "/v1"

	c, err := NewOpenAIClient(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAIClient err: %v", err)
	}
	return c
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(config.Default().OpenAI, zap.NewNop()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestOpenAIComplete(t *testing.T) {
	var req struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected authorization: %s", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi from the model"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":4,"total_tokens":9}}`))
	})

	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if got != "Hi from the model" {
		t.Fatalf("unexpected completion: %q", got)
	}

	if req.Model != config.DefaultModel || req.MaxTokens != 500 {
		t.Fatalf("unexpected request: model=%s max_tokens=%d", req.Model, req.MaxTokens)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[0].Content != config.DefaultSystemPrompt {
		t.Fatalf("unexpected system message: %+v", req.Messages)
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "hello" {
		t.Fatalf("unexpected user message: %+v", req.Messages)
	}
}

func TestOpenAICompleteFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key","type":"invalid_request_error"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"role":"assistant","content":"  "}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), "hello")
			if !errors.Is(err, model.ErrBackendUnavailable) {
				t.Fatalf("expected ErrBackendUnavailable, got %v", err)
			}
		})
	}
}
