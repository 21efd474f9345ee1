package main

import (
	"fmt"
	"log"
	"os"

	"github.com/chatagent/chatagent-go/internal/client"
	"github.com/chatagent/chatagent-go/internal/config"
	"github.com/chatagent/chatagent-go/internal/handler"
	"github.com/chatagent/chatagent-go/internal/middleware"
	"github.com/chatagent/chatagent-go/internal/responder"
	"github.com/chatagent/chatagent-go/internal/service"
	"github.com/chatagent/chatagent-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	configPath := "configs/chat-server.yaml"
	if p := os.Getenv("CHAT_SERVER_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("chat-server 服务启动中...")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// 初始化大模型客户端（可选）
	var opts []responder.Option
	if cfg.OpenAI.Enabled() {
		llmClient, err := client.NewOpenAIClient(cfg.OpenAI, zapLogger)
		if err != nil {
			zapLogger.Fatal("初始化大模型客户端失败", zap.Error(err))
		}
		opts = append(opts, responder.WithCompleter(llmClient))
		zapLogger.Info("OpenAI API key 已配置", zap.String("model", cfg.OpenAI.Model))
	} else {
		zapLogger.Warn("OpenAI API key 未配置，使用基础回复")
	}

	// 初始化服务
	dispatcherCfg := service.DispatcherConfig{
		Responder: responder.New(zapLogger, opts...),
		UserID:    cfg.Webhook.UserID,
	}
	if cfg.Webhook.Enabled() {
		dispatcherCfg.Forwarder = client.NewWebhookClient(cfg.Webhook.URL, cfg.Webhook.Timeout(), zapLogger)
		zapLogger.Info("n8n webhook 已配置", zap.String("url", cfg.Webhook.URL))
	} else {
		zapLogger.Warn("n8n 未配置，使用内置回复")
	}
	dispatcher := service.NewDispatcher(dispatcherCfg, zapLogger)

	// 初始化路由
	r := handler.NewRouter(handler.RouterDeps{
		Dispatcher:       dispatcher,
		ServiceName:      cfg.Server.Name,
		N8NConfigured:    cfg.Webhook.Enabled(),
		OpenAIConfigured: cfg.OpenAI.Enabled(),
		Limiter:          middleware.NewRateLimiter(cfg.RateLimit),
		Logger:           zapLogger,
	})

	// 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zapLogger.Info("chat-server 服务启动成功",
		zap.Int("port", cfg.Server.Port))

	if err := r.Run(addr); err != nil {
		zapLogger.Fatal("服务启动失败", zap.Error(err))
	}
}
