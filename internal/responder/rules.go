package responder

import (
	"fmt"
	"strings"
	"time"
)

// Rule 本地回复规则。Match 接收小写后的消息，Reply 接收原始消息
type Rule struct {
	Name  string
	Match func(lower string) bool
	Reply func(text string, now time.Time) string
}

// Keywords 构造子串匹配函数
func Keywords(words ...string) func(string) bool {
	return func(lower string) bool {
		return containsAny(lower, words)
	}
}

// Static 构造固定文本回复
func Static(reply string) func(string, time.Time) string {
	return func(string, time.Time) string {
		return reply
	}
}

const (
	GreetingReply = "Hello! I'm your AI Assistant. How can I help you today?"
	StatusReply   = "I'm doing great! Ready to assist you with your tasks."
	HelpReply     = "I can help you with:\n• Answering questions\n• Drafting emails\n• Providing information\n• General conversation\n\nJust ask me anything!"
	ThanksReply   = "You're welcome! Is there anything else I can help you with?"
	FarewellReply = "Goodbye! Have a great day! Feel free to come back anytime."
	IdentityReply = "I'm an AI Assistant powered by Go and integrated with automation workflows. I'm here to help you!"

	EmailRecipientQuestion = "I'd be happy to help you draft an email. Who should I address it to, and what's the main topic?"
	EmailOffer             = "I can assist with email-related tasks. Would you like me to help you draft an email?"
)

// DefaultRules 按优先级排列的内置规则，第一个命中的规则生效
func DefaultRules() []Rule {
	return []Rule{
		{Name: "greeting", Match: Keywords("hello", "hi", "hey", "greetings"), Reply: Static(GreetingReply)},
		{Name: "status", Match: Keywords("how are you", "how're you"), Reply: Static(StatusReply)},
		{Name: "help", Match: Keywords("help", "assist", "support"), Reply: Static(HelpReply)},
		{Name: "thanks", Match: Keywords("thank", "thanks"), Reply: Static(ThanksReply)},
		{Name: "farewell", Match: Keywords("bye", "goodbye", "see you"), Reply: Static(FarewellReply)},
		{Name: "email", Match: Keywords("email"), Reply: emailReply},
		{Name: "identity", Match: Keywords("name", "who are you"), Reply: Static(IdentityReply)},
		{Name: "time", Match: Keywords("time", "date"), Reply: timeReply},
	}
}

func emailReply(text string, _ time.Time) string {
	intent := ExtractEmailIntent(text)
	switch {
	case intent.IsEmailRequest && len(intent.Emails) > 0:
		return fmt.Sprintf("I can help you send an email to %s. However, email functionality requires n8n integration. For now, I can help you draft the content!",
			strings.Join(intent.Emails, ", "))
	case intent.IsEmailRequest:
		return EmailRecipientQuestion
	default:
		return EmailOffer
	}
}

func timeReply(_ string, now time.Time) string {
	return "Current date and time: " + now.Format("2006-01-02 15:04:05")
}

// EchoReply 没有规则命中时的默认回复
func EchoReply(text string) string {
	return fmt.Sprintf("I received your message: \"%s\"\n\nI'm a demo AI assistant. For advanced features like email automation, please configure the n8n integration or add an OpenAI API key.", text)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
