package model

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusHealthy = "healthy"
)

// ChatRequest 聊天请求
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	BotResponse string `json:"bot_response"`
	Status      string `json:"status"` // success, error 或工作流返回的状态
	Note        string `json:"note,omitempty"`
}

// WebhookPayload 转发给 n8n 的请求体
type WebhookPayload struct {
	UserPrompt string `json:"user_prompt"`
	Timestamp  string `json:"timestamp"`
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	Text       string `json:"text"` // 与 n8n 工作流字段保持兼容
}

// WebhookResult n8n 返回结果
type WebhookResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Timestamp        string `json:"timestamp"`
	N8NConfigured    bool   `json:"n8n_configured"`
	OpenAIConfigured bool   `json:"openai_configured"`
}

// ErrorResponse 构建错误响应
func ErrorResponse(text string) ChatResponse {
	return ChatResponse{BotResponse: text, Status: StatusError}
}
