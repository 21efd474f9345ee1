package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `yaml:"port"`
	Name string `yaml:"name"`
	Mode string `yaml:"mode"` // debug, release, test
}

// WebhookConfig n8n 工作流 webhook 配置，URL 为空表示未启用
type WebhookConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	UserID         string `yaml:"userId"`
}

// OpenAIConfig 大模型配置，APIKey 为空表示只使用本地规则
type OpenAIConfig struct {
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseUrl"`
	Model          string `yaml:"model"`
	SystemPrompt   string `yaml:"systemPrompt"`
	MaxTokens      int    `yaml:"maxTokens"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// RateLimitConfig 限流配置，RPS <= 0 时关闭
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

const (
	DefaultPort           = 5000
	DefaultServiceName    = "AI Chatbot Backend"
	DefaultWebhookTimeout = 30
	DefaultUserID         = "mock_user_id"
	DefaultModel          = "gpt-3.5-turbo"
	DefaultSystemPrompt   = "You are a helpful AI assistant. Be concise and friendly."
	DefaultMaxTokens      = 500
	DefaultOpenAITimeout  = 10
)

// Default 返回未加载任何文件时的配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig 加载配置文件，随后读取 .env 与环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 失败: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnv 使用环境变量覆盖配置
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("N8N_WEBHOOK_URL"); ok {
		c.Webhook.URL = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
		c.OpenAI.APIKey = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("无效的 PORT: %q", v)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Name == "" {
		c.Server.Name = DefaultServiceName
	}
	if c.Webhook.TimeoutSeconds <= 0 {
		c.Webhook.TimeoutSeconds = DefaultWebhookTimeout
	}
	if c.Webhook.UserID == "" {
		c.Webhook.UserID = DefaultUserID
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = DefaultModel
	}
	if c.OpenAI.SystemPrompt == "" {
		c.OpenAI.SystemPrompt = DefaultSystemPrompt
	}
	if c.OpenAI.MaxTokens <= 0 {
		c.OpenAI.MaxTokens = DefaultMaxTokens
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = DefaultOpenAITimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Enabled webhook 是否已配置
func (c WebhookConfig) Enabled() bool {
	return c.URL != ""
}

// Timeout webhook 调用超时
func (c WebhookConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Enabled 是否提供了大模型密钥
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// Timeout 大模型调用超时
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
