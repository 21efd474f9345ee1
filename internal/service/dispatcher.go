package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	workflowIssuePrefix = "Workflow issue: "
	timeoutSuffix       = " (n8n timeout, using fallback)"
	fallbackNote        = "n8n unavailable, using fallback"
)

// Forwarder 外部工作流
type Forwarder interface {
	Forward(ctx context.Context, payload model.WebhookPayload) (*model.WebhookResult, error)
}

// Responder 本地兜底回复
type Responder interface {
	Respond(ctx context.Context, text string) string
}

// DispatcherConfig 分发器配置。Forwarder 为 nil 表示未配置 webhook
type DispatcherConfig struct {
	Forwarder Forwarder
	Responder Responder
	UserID    string
	Now       func() time.Time
	NewID     func() string
}

// Dispatcher 聊天分发服务
type Dispatcher struct {
	forwarder Forwarder
	responder Responder
	userID    string
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

// NewDispatcher 创建聊天分发服务
func NewDispatcher(cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		forwarder: cfg.Forwarder,
		responder: cfg.Responder,
		userID:    cfg.UserID,
		now:       cfg.Now,
		newID:     cfg.NewID,
		logger:    logger,
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	return d
}

// WebhookConfigured 是否启用了 n8n 转发
func (d *Dispatcher) WebhookConfigured() bool {
	return d.forwarder != nil
}

// Handle 处理一条用户消息。只有空消息会返回错误，上游失败都会回落到本地回复
func (d *Dispatcher) Handle(ctx context.Context, message string) (*model.ChatResponse, error) {
	prompt := strings.TrimSpace(message)
	if prompt == "" {
		return nil, model.ErrInvalidRequest
	}

	d.logger.Info("收到用户消息", zap.String("message", prompt))

	if d.forwarder == nil {
		d.logger.Debug("n8n 未配置，使用内置回复")
		return d.fallback(ctx, prompt, ""), nil
	}

	payload := model.WebhookPayload{
		UserPrompt: prompt,
		Timestamp:  d.now().Format(time.RFC3339Nano),
		SessionID:  d.newID(),
		UserID:     d.userID,
		Text:       prompt,
	}

	result, err := d.forwarder.Forward(ctx, payload)
	switch {
	case err == nil:
		return workflowResponse(result), nil
	case errors.Is(err, model.ErrUpstreamTimeout):
		d.logger.Warn("n8n 调用超时", zap.String("sessionId", payload.SessionID), zap.Error(err))
		resp := d.fallback(ctx, prompt, "")
		resp.BotResponse += timeoutSuffix
		return resp, nil
	default:
		d.logger.Error("n8n 调用失败", zap.String("sessionId", payload.SessionID), zap.Error(err))
		return d.fallback(ctx, prompt, fallbackNote), nil
	}
}

func (d *Dispatcher) fallback(ctx context.Context, prompt, note string) *model.ChatResponse {
	return &model.ChatResponse{
		BotResponse: d.responder.Respond(ctx, prompt),
		Status:      model.StatusSuccess,
		Note:        note,
	}
}

// workflowResponse 工作流状态非 success 时仍返回 200，仅在文本前加标记
func workflowResponse(result *model.WebhookResult) *model.ChatResponse {
	text := result.Message
	if result.Status != model.StatusSuccess {
		text = workflowIssuePrefix + text
	}
	return &model.ChatResponse{
		BotResponse: text,
		Status:      result.Status,
	}
}
