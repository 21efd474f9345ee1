package handler

import (
	"net/http"
	"time"

	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/gin-gonic/gin"
)

// APIHandler 健康检查处理器
type APIHandler struct {
	serviceName      string
	n8nConfigured    bool
	openAIConfigured bool
	now              func() time.Time
}

// NewAPIHandler 创建健康检查处理器
func NewAPIHandler(serviceName string, n8nConfigured, openAIConfigured bool) *APIHandler {
	return &APIHandler{
		serviceName:      serviceName,
		n8nConfigured:    n8nConfigured,
		openAIConfigured: openAIConfigured,
		now:              time.Now,
	}
}

// Health 健康检查，始终返回 200
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:           model.StatusHealthy,
		Service:          h.serviceName,
		Timestamp:        h.now().Format(time.RFC3339Nano),
		N8NConfigured:    h.n8nConfigured,
		OpenAIConfigured: h.openAIConfigured,
	})
}
