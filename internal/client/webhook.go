package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultWorkflowMessage = "Workflow executed successfully."

// WebhookClient n8n webhook 客户端
type WebhookClient struct {
	url    string
	client *resty.Client
	logger *zap.Logger
}

// NewWebhookClient 创建 webhook 客户端
func NewWebhookClient(url string, timeout time.Duration, logger *zap.Logger) *WebhookClient {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &WebhookClient{
		url:    url,
		client: client,
		logger: logger,
	}
}

// Forward 提交请求到 n8n。超时返回 ErrUpstreamTimeout，其他失败返回 ErrUpstreamFailure
func (c *WebhookClient) Forward(ctx context.Context, payload model.WebhookPayload) (*model.WebhookResult, error) {
	c.logger.Info("转发请求到 n8n",
		zap.String("sessionId", payload.SessionID),
		zap.String("userPrompt", payload.UserPrompt))

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", model.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: 请求失败: %v", model.ErrUpstreamFailure, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: n8n 返回错误: %d, body: %s",
			model.ErrUpstreamFailure, resp.StatusCode(), resp.String())
	}

	result, err := parseWebhookResult(resp.Body())
	if err != nil {
		return nil, err
	}

	c.logger.Info("收到 n8n 响应",
		zap.String("sessionId", payload.SessionID),
		zap.String("status", result.Status))
	return result, nil
}

// parseWebhookResult 解析 n8n 响应，缺失字段使用默认值
func parseWebhookResult(body []byte) (*model.WebhookResult, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: 解析 n8n 响应失败: %s", model.ErrUpstreamFailure, string(body))
	}

	result := &model.WebhookResult{
		Status:  model.StatusSuccess,
		Message: defaultWorkflowMessage,
	}
	if v, ok := raw["status"]; ok {
		// 显式 null 不是 success，按工作流失败处理
		if string(v) == "null" {
			result.Status = model.StatusError
		} else if err := json.Unmarshal(v, &result.Status); err != nil {
			return nil, fmt.Errorf("%w: status 字段格式错误", model.ErrUpstreamFailure)
		}
	}
	if v, ok := raw["message"]; ok {
		if err := json.Unmarshal(v, &result.Message); err != nil {
			return nil, fmt.Errorf("%w: message 字段格式错误", model.ErrUpstreamFailure)
		}
	}
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
