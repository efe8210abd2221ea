package domain

import (
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Import pipeline errors
	CodeParseError  ErrorCode = "PARSE_ERROR"
	CodeTransaction ErrorCode = "TRANSACTION_ERROR"

	// Retrieval errors
	CodeQuizNotFound  ErrorCode = "QUIZ_NOT_FOUND"
	CodeTopicNotFound ErrorCode = "TOPIC_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// NewParseError reports a document that yielded zero questions. The
// importer treats this as fatal; the parser itself does not.
func NewParseError(slug string) *DomainError {
	return NewError(CodeParseError, fmt.Sprintf("zero questions parsed for topic %q", slug), nil)
}

// NewTransactionError wraps a persistence-phase failure. The whole
// import run has been rolled back when this is returned.
func NewTransactionError(cause error) *DomainError {
	return NewError(CodeTransaction, "import transaction failed", cause)
}

func NewQuizNotFoundError(slug string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("no quiz found for slug %q", slug), nil)
}

func NewTopicNotFoundError(slug string) *DomainError {
	return NewError(CodeTopicNotFound, fmt.Sprintf("no topic found for slug %q", slug), nil)
}
