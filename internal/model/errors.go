package model

import "errors"

var (
	// ErrInvalidRequest 请求体不是 JSON 或消息为空
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstreamTimeout webhook 调用超时
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstreamFailure webhook 传输失败或返回格式错误
	ErrUpstreamFailure = errors.New("upstream failure")
	// ErrBackendUnavailable 大模型调用失败
	ErrBackendUnavailable = errors.New("language model backend unavailable")
)
