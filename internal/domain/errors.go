package domain

import (
	"errors"
	"fmt"
)

// Ошибки уровня предметной области. Обработчики HTTP переводят их
// в коды ответов, инфраструктурные ошибки наружу не раскрываются.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError накапливает ошибки валидации по полям.
// Для каждого поля сохраняется только первое сообщение.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add записывает сообщение об ошибке для поля, если его там еще нет
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// OrNil возвращает ошибку, только если накопилось хотя бы одно сообщение
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// AsValidationError распаковывает ValidationError из цепочки ошибок
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
