package controller

import (
	"errors"
	"strings"

	"ghost-story/internal/domain/entity"
)

// 表单校验错误
var (
	ErrPromptBlank    = errors.New("Please enter a prompt to generate your ghost story")
	ErrPromptTooShort = errors.New("Prompt must be at least 3 characters")
	ErrPromptTooLong  = errors.New("Prompt must be less than 200 characters")
)

// ValidatePrompt 客户端表单校验；长度按原文计，去空白只用于判空
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrPromptBlank
	}
	n := entity.PromptLength(prompt)
	if n < entity.MinPromptLength {
		return ErrPromptTooShort
	}
	if n > entity.MaxPromptLength {
		return ErrPromptTooLong
	}
	return nil
}
