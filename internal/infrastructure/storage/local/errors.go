package local

import (
	"errors"
	"fmt"
)

// Code - стабильный код категории ошибки хранилища
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeOperation  Code = "OPERATION_FAILED"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("record not found")
	ErrOperation  = errors.New("operation failed")

	ErrIndexMissing = errors.New("index not defined")
	ErrUnknownStore = errors.New("store not defined")
)

// Error - ошибка репозитория с кодом, хранилищем и исходной причиной
type Error struct {
	Code    Code
	Op      string
	Store   string
	ID      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeNotFound:
		return fmt.Sprintf("Record not found in %s with id: %s", e.Store, e.ID)
	case CodeOperation:
		return fmt.Sprintf("Failed to %s in %s: %v", e.Op, e.Store, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать через errors.Is с ErrValidation, ErrNotFound, ErrOperation
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Code == CodeValidation
	case ErrNotFound:
		return e.Code == CodeNotFound
	case ErrOperation:
		return e.Code == CodeOperation
	}
	return false
}

func validationError(store, format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Store: store, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(store, id string) *Error {
	return &Error{Code: CodeNotFound, Store: store, ID: id}
}

// operationError заворачивает сбой движка. Ошибки таксономии пропускаются как есть.
func operationError(op, store string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Code: CodeOperation, Op: op, Store: store, Err: err}
}

// CodeOf возвращает код ошибки или пустую строку для посторонних ошибок
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
