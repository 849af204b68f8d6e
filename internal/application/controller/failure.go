package controller

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// 客户端异常的展示文案
const (
	MsgNetworkFailure = "Network error. Please check your connection and try again."
	MsgTimedOut       = "The request timed out. Please try again."
	MsgUnexpected     = "An unexpected error occurred. Please try again."
)

// DescribeFailure 把生成调用返回的 Go error 转换为展示文案
// 先做结构化判断，再按错误文本做兼容匹配
func DescribeFailure(err error) string {
	if err == nil {
		return MsgUnexpected
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return MsgTimedOut
	}
	if isTransportFailure(err) {
		return MsgNetworkFailure
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return MsgTimedOut
	case strings.Contains(msg, "fetch"), strings.Contains(msg, "network"):
		return MsgNetworkFailure
	default:
		return MsgUnexpected
	}
}

func isTransportFailure(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
