package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgNotJSON      = "Request must be JSON."
	msgEmptyMessage = "Please enter a valid message."
	msgInternal     = "Something went wrong, please try again."
)

// ChatDispatcher 聊天分发
type ChatDispatcher interface {
	Handle(ctx context.Context, message string) (*model.ChatResponse, error)
}

// ChatHandler 聊天处理器
type ChatHandler struct {
	dispatcher ChatDispatcher
	logger     *zap.Logger
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(dispatcher ChatDispatcher, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Chat 聊天接口
func (h *ChatHandler) Chat(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("读取请求体失败", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse(msgNotJSON))
		return
	}

	status, resp := h.decode(c.Request.Context(), data)
	c.JSON(status, resp)
}

// decode 解析整段 JSON 请求体（HTTP 请求或 WebSocket 文本帧）并分发
func (h *ChatHandler) decode(ctx context.Context, data []byte) (int, model.ChatResponse) {
	var req model.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.logger.Warn("请求体不是有效 JSON", zap.Error(err))
		return http.StatusBadRequest, model.ErrorResponse(msgNotJSON)
	}
	return h.dispatch(ctx, req.Message)
}

func (h *ChatHandler) dispatch(ctx context.Context, message string) (int, model.ChatResponse) {
	resp, err := h.dispatcher.Handle(ctx, message)
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		return http.StatusBadRequest, model.ErrorResponse(msgEmptyMessage)
	case err != nil:
		h.logger.Error("处理消息失败", zap.Error(err))
		return http.StatusInternalServerError, model.ErrorResponse(msgInternal)
	}
	return http.StatusOK, *resp
}
