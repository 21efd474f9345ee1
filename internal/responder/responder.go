package responder

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Completer 可选的大模型后端
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Responder 本地兜底回复器
type Responder struct {
	completer Completer
	rules     []Rule
	now       func() time.Time
	logger    *zap.Logger
}

// Option 回复器选项
type Option func(*Responder)

// WithCompleter 设置大模型后端，nil 表示只使用本地规则
func WithCompleter(c Completer) Option {
	return func(r *Responder) {
		r.completer = c
	}
}

// WithRules 替换内置规则
func WithRules(rules []Rule) Option {
	return func(r *Responder) {
		r.rules = rules
	}
}

// WithClock 设置时间来源
func WithClock(now func() time.Time) Option {
	return func(r *Responder) {
		r.now = now
	}
}

// New 创建回复器
func New(logger *zap.Logger, opts ...Option) *Responder {
	r := &Responder{
		rules:  DefaultRules(),
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond 生成回复。大模型可用时优先调用，失败后回落到本地规则
func (r *Responder) Respond(ctx context.Context, text string) string {
	if r.completer != nil {
		reply, err := r.completer.Complete(ctx, text)
		if err == nil {
			return reply
		}
		r.logger.Warn("大模型调用失败，使用本地规则", zap.Error(err))
	}

	return r.local(text)
}

func (r *Responder) local(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range r.rules {
		if rule.Match(lower) {
			r.logger.Debug("命中本地规则", zap.String("rule", rule.Name))
			return rule.Reply(text, r.now())
		}
	}
	return EchoReply(text)
}
