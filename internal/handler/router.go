package handler

import (
	"github.com/chatagent/chatagent-go/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	Dispatcher       ChatDispatcher
	ServiceName      string
	N8NConfigured    bool
	OpenAIConfigured bool
	Limiter          *rate.Limiter
	Logger           *zap.Logger
}

// NewRouter 注册所有路由
func NewRouter(deps RouterDeps) *gin.Engine {
	chatHandler := NewChatHandler(deps.Dispatcher, deps.Logger)
	wsHandler := NewWebSocketHandler(chatHandler, deps.Limiter, deps.Logger)
	apiHandler := NewAPIHandler(deps.ServiceName, deps.N8NConfigured, deps.OpenAIConfigured)

	r := gin.Default()
	r.Use(middleware.CORS())

	r.POST("/chat", middleware.RateLimit(deps.Limiter), chatHandler.Chat)
	r.GET("/health", apiHandler.Health)
	r.GET("/ws", wsHandler.HandleWebSocket)

	return r
}
