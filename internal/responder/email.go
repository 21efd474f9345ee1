package responder

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

var emailRequestKeywords = []string{"send email", "write email", "draft email", "email to", "send an email"}

// EmailIntent 从单条消息中提取的邮件意图
type EmailIntent struct {
	IsEmailRequest bool     `json:"is_email_request"`
	Emails         []string `json:"emails"`
	Subject        string   `json:"subject"`
	Message        string   `json:"message"`
}

// ExtractEmailIntent 提取邮箱地址并判断是否为发邮件请求。
// 地址按出现顺序返回，重复地址保留。
func ExtractEmailIntent(text string) EmailIntent {
	emails := emailPattern.FindAllString(text, -1)
	if emails == nil {
		emails = []string{}
	}

	intent := EmailIntent{Emails: emails}
	if containsAny(strings.ToLower(text), emailRequestKeywords) {
		intent.IsEmailRequest = true
		intent.Message = text
	}
	return intent
}
