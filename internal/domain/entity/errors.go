package entity

import (
	"errors"
	"fmt"
)

// ErrorKind вид ошибки сравнения
type ErrorKind string

const (
	KindInput               ErrorKind = "input"                // поток отсутствует или не читается
	KindDecode              ErrorKind = "decode"               // повреждённое изображение или документ
	KindNoRegion            ErrorKind = "no_region"            // на изображении нет значимого содержимого
	KindInsufficientMatches ErrorKind = "insufficient_matches" // меньше минимума соответствий
	KindTransform           ErrorKind = "transform"            // RANSAC не дал пригодной гомографии
	KindIO                  ErrorKind = "io"                   // ошибка временного хранилища
	KindUnknown             ErrorKind = "unknown"
)

var (
	ErrNoRegion            = errors.New("no salient content found")
	ErrInsufficientMatches = errors.New("not enough feature correspondences")
	ErrTransform           = errors.New("homography could not be estimated")
	ErrEmptyInput          = errors.New("empty input")
	ErrComparisonNotFound  = errors.New("comparison not found")
)

// ComparisonError типизированная ошибка конвейера сравнения.
type ComparisonError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError оборачивает err в ComparisonError.
func NewError(kind ErrorKind, op string, err error) *ComparisonError {
	return &ComparisonError{Kind: kind, Op: op, Err: err}
}

func (e *ComparisonError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *ComparisonError) Unwrap() error {
	return e.Err
}

// KindOf возвращает вид ошибки или KindUnknown, если err не ComparisonError.
func KindOf(err error) ErrorKind {
	var ce *ComparisonError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Retryable сообщает, имеет ли смысл повторить выравнивание с новым зерном.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindInsufficientMatches, KindTransform:
		return true
	}
	return false
}
