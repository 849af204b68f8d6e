package story

import (
	"ghost-story/internal/domain/entity"
	apperrors "ghost-story/pkg/errors"
)

const (
	msgPromptTooShort = "Prompt must be at least 3 characters"
	msgPromptTooLong  = "Prompt must be less than 200 characters"
)

// ValidatePrompt 服务端长度校验，不做去空白处理
func ValidatePrompt(prompt string) *apperrors.AppError {
	n := entity.PromptLength(prompt)
	switch {
	case n < entity.MinPromptLength:
		return apperrors.New(apperrors.CodeValidation, msgPromptTooShort)
	case n > entity.MaxPromptLength:
		return apperrors.New(apperrors.CodeValidation, msgPromptTooLong)
	default:
		return nil
	}
}
