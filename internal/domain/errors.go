package domain

import (
	"errors"
)

// ErrNoRecipients 表示分配规则没有解析出任何在职的接收人
var ErrNoRecipients = errors.New("分配规则没有匹配到任何在职用户")

// ValidationError 表示调用方给出的分配规则本身不合法
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
