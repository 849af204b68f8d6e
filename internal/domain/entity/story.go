// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	apperrors "ghost-story/pkg/errors"
)

// 提示词长度边界（字符数，按 Unicode 码点计）
const (
	MinPromptLength = 3
	MaxPromptLength = 200
)

// PromptLength 返回提示词的字符数
func PromptLength(prompt string) int {
	return utf8.RuneCountInString(prompt)
}

// GenerationResult 故事生成结果，成功与失败二选一
type GenerationResult struct {
	Story     string
	Error     string
	Code      apperrors.ErrorCode
	Retryable bool
}

// Success 构造成功结果
func Success(story string) GenerationResult {
	return GenerationResult{Story: story}
}

// Failure 由 AppError 构造失败结果
func Failure(err *apperrors.AppError) GenerationResult {
	return GenerationResult{
		Error:     err.Message,
		Code:      err.Code,
		Retryable: err.Retryable(),
	}
}

// IsSuccess 是否为成功结果
func (r GenerationResult) IsSuccess() bool {
	return r.Code == "" && r.Error == ""
}

// ResultLabel 用于指标与追踪的结果标签
func (r GenerationResult) ResultLabel() string {
	if r.IsSuccess() {
		return "success"
	}
	return string(r.Code)
}

type storyPayload struct {
	Story string `json:"story"`
}

type errorPayload struct {
	Error     string              `json:"error"`
	Code      apperrors.ErrorCode `json:"code"`
	Retryable bool                `json:"retryable"`
}

// MarshalJSON 成功输出 {story}，失败输出 {error, code, retryable}
func (r GenerationResult) MarshalJSON() ([]byte, error) {
	if r.IsSuccess() {
		return json.Marshal(storyPayload{Story: r.Story})
	}
	return json.Marshal(errorPayload{Error: r.Error, Code: r.Code, Retryable: r.Retryable})
}

// UnmarshalJSON 解析联合类型，两种形态都缺失或同时出现时报错
func (r *GenerationResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Story     *string             `json:"story"`
		Error     *string             `json:"error"`
		Code      apperrors.ErrorCode `json:"code"`
		Retryable bool                `json:"retryable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Story != nil && raw.Error != nil:
		return fmt.Errorf("generation result carries both story and error")
	case raw.Story != nil:
		*r = Success(*raw.Story)
	case raw.Error != nil:
		code := raw.Code
		if !code.Valid() {
			code = apperrors.CodeUnknown
		}
		msg := *raw.Error
		if msg == "" {
			msg = "An unexpected error occurred. Please try again."
		}
		// 以服务端下发的 retryable 为准，不按错误码推断
		*r = Failure(apperrors.New(code, msg).WithRetryable(raw.Retryable))
	default:
		return fmt.Errorf("generation result carries neither story nor error")
	}
	return nil
}
