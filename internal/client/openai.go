package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chatagent/chatagent-go/internal/config"
	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient 大模型客户端
type OpenAIClient struct {
	client       *openai.Client
	model        string
	systemPrompt string
	maxTokens    int
	timeout      time.Duration
	logger       *zap.Logger
}

// NewOpenAIClient 创建大模型客户端
func NewOpenAIClient(cfg config.OpenAIConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout()}

	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxTokens:    cfg.MaxTokens,
		timeout:      cfg.Timeout(),
		logger:       logger,
	}, nil
}

// Complete 单轮对话，失败统一返回 ErrBackendUnavailable
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", model.ErrBackendUnavailable)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty completion", model.ErrBackendUnavailable)
	}

	c.logger.Debug("大模型调用成功",
		zap.String("model", c.model),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))
	return content, nil
}
