package story

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"ghost-story/internal/infrastructure/llm"
	apperrors "ghost-story/pkg/errors"
)

// 面向用户的错误文案
const (
	msgUnavailable     = "Story generation is temporarily unavailable. Please try again later."
	msgGenerateFailed  = "Failed to generate story. Please try again."
	msgTimeout         = "Story generation is taking too long. Please try again with a simpler prompt."
	msgRateLimited     = "Too many requests. Please wait a moment and try again."
	msgInvalidPrompt   = "Invalid prompt. Please try a different prompt."
	msgProviderDown    = "OpenAI service is temporarily unavailable. Please try again in a few moments."
	msgNetwork         = "Network error. Please check your connection and try again."
	msgUnexpectedError = "An unexpected error occurred. Please try again."
)

// ErrDeadlineExceeded 截止时间先于上游响应到达
var ErrDeadlineExceeded = errors.New("story generation deadline exceeded")

// classifyFailure 按优先级把上游失败映射为错误码：
// 已归类 > 超时 > 429 > 401/403 > 400 > 5xx > 网络连通性 > 其他带状态码 > 未知
func classifyFailure(err error) *apperrors.AppError {
	// 客户端已归类的错误原样透出
	if apperrors.IsAppError(err) {
		return apperrors.AsAppError(err)
	}
	if isTimeout(err) {
		return apperrors.Wrap(err, apperrors.CodeTimeout, msgTimeout)
	}

	status, hasStatus := llm.StatusCode(err)
	if hasStatus {
		switch {
		case status == http.StatusTooManyRequests:
			return apperrors.Wrap(err, apperrors.CodeAPI, msgRateLimited)
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return apperrors.Wrap(err, apperrors.CodeAPI, msgUnavailable).WithDetail("provider rejected credentials")
		case status == http.StatusBadRequest:
			return apperrors.Wrap(err, apperrors.CodeValidation, msgInvalidPrompt)
		case status >= http.StatusInternalServerError:
			return apperrors.Wrap(err, apperrors.CodeAPI, msgProviderDown)
		}
	}

	if isConnectivity(err) {
		return apperrors.Wrap(err, apperrors.CodeAPI, msgNetwork)
	}
	if hasStatus {
		return apperrors.Wrap(err, apperrors.CodeAPI, msgGenerateFailed)
	}
	return apperrors.Wrap(err, apperrors.CodeUnknown, msgUnexpectedError)
}

func isTimeout(err error) bool {
	return errors.Is(err, ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}

// isConnectivity 结构化判断优先，消息匹配仅作兼容兜底
func isConnectivity(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"fetch", "enotfound", "econnrefused", "connection refused", "no such host"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
