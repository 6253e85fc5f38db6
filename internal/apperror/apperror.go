// Package apperror defines the machine-readable error kinds returned by the
// service layer and their HTTP status mapping.
package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindTransactionFailed Kind = "TRANSACTION_FAILED"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindInternal          Kind = "INTERNAL"
)

// Error is a classified failure with a human-readable message and optional
// structured details (field errors, available stock, ...).
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// StockDetails is attached to INSUFFICIENT_STOCK errors.
type StockDetails struct {
	Available int `json:"available"`
	Requested int `json:"requested"`
}

func InsufficientStock(message string, available, requested int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: message,
		Details: StockDetails{Available: available, Requested: requested},
	}
}

func TransactionFailed(err error) *Error {
	return &Error{Kind: KindTransactionFailed, Message: "Failed to record sale", Err: err}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err; unclassified errors are INTERNAL.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps err to the HTTP status code the API responds with.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInsufficientStock:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
