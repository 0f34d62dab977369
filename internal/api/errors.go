package api

import (
	"errors"
	"fmt"
)

// 错误分类（客户端统一错误形状）：
// - NetworkError     传输层失败，没有拿到可解析的响应
// - ApplicationError 服务端返回失败状态码 + 业务消息
// - AuthError        身份操作失败（登录/注册/换票等）
// - ValidationError  客户端本地校验失败，从不触网
//
// 所有错误都直接上抛给发起操作的一侧展示，不自动重试。

// NetworkError 传输失败或响应不可解析。
type NetworkError struct {
	Op  string // 例如 "GET /vehicles"
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network error: %s", e.Op)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ApplicationError 服务端明确拒绝（非 2xx + {"error": "..."}）。
type ApplicationError struct {
	Status  int    // HTTP 状态码
	Message string // 服务端给出的消息
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// AuthError 身份提供方操作失败。
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError 本地校验拒绝，保证不会发起网络调用。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// IsNetwork 判断是否传输层失败。
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsApplication 判断是否服务端业务失败。
func IsApplication(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}

// IsAuth 判断是否身份操作失败。
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation 判断是否本地校验失败。
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
