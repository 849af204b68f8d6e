// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型，取值即对外暴露的错误码字符串
type ErrorCode string

// 预定义错误码
const (
	// CodeValidation 用户输入不合法，不应自动重试
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	// CodeAPI 上游模型服务或传输层失败
	CodeAPI ErrorCode = "API_ERROR"
	// CodeTimeout 超过生成截止时间
	CodeTimeout ErrorCode = "TIMEOUT"
	// CodeUnknown 未归类错误
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Valid 判断错误码是否属于已知集合
func (c ErrorCode) Valid() bool {
	switch c {
	case CodeValidation, CodeAPI, CodeTimeout, CodeUnknown:
		return true
	default:
		return false
	}
}

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`

	retryable bool
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable 客户端是否可以原样重新提交
func (e *AppError) Retryable() bool {
	return e.retryable
}

// WithDetail 添加详细信息（仅用于日志，不返回给用户）
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// WithRetryable 覆盖默认的可重试判定
func (e *AppError) WithRetryable(retryable bool) *AppError {
	e.retryable = retryable
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: HTTPStatus(code),
		retryable:  defaultRetryable(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return New(code, message).WithError(err)
}

// defaultRetryable 只有输入校验错误默认不可重试
func defaultRetryable(code ErrorCode) bool {
	return code != CodeValidation
}

// HTTPStatus 错误码转 HTTP 状态码
func HTTPStatus(code ErrorCode) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAPI:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError 检查错误链中是否存在 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
