package handler

import (
	"net/http"

	"github.com/chatagent/chatagent-go/internal/middleware"
	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler WebSocket 处理器，每个文本帧对应一次 /chat 调用
type WebSocketHandler struct {
	chat    *ChatHandler
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(chat *ChatHandler, limiter *rate.Limiter, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chat:    chat,
		limiter: limiter,
		logger:  logger,
	}
}

// HandleWebSocket WebSocket 连接入口
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	clientIP := c.ClientIP()
	h.logger.Info("WebSocket 连接建立", zap.String("clientIp", clientIP))

	ctx := c.Request.Context()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket 读取错误", zap.Error(err))
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var resp model.ChatResponse
		if h.limiter != nil && !h.limiter.Allow() {
			resp = model.ErrorResponse(middleware.RateLimitMessage)
		} else {
			_, resp = h.chat.decode(ctx, data)
		}

		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Error("WebSocket 写入失败", zap.Error(err))
			break
		}
	}

	h.logger.Info("WebSocket 连接断开", zap.String("clientIp", clientIP))
}
