package errors

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Error kinds recognized by the HTTP layer.
const (
	KindValidation  = "validation"
	KindNotFound    = "not_found"
	KindSynthesis   = "synthesis"
	KindStorage     = "storage"
	KindPersistence = "persistence"
	KindUnknown     = "unknown"
)

// Error represents a custom error with an HTTP status code and stack trace
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"` // 原始错误，不序列化
	Stack   string `json:"stack,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements the errors.Wrapper interface
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCode creates a new error with code
func WithCode(code int, message string) *Error {
	return &Error{
		Code:    code,
		Kind:    KindUnknown,
		Message: message,
		Stack:   captureStack(),
	}
}

// Validation creates a 400 error for missing or invalid input
func Validation(format string, args ...interface{}) *Error {
	return &Error{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(),
	}
}

// NotFound creates a 404 error for an absent entity
func NotFound(format string, args ...interface{}) *Error {
	return &Error{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(),
	}
}

// Synthesis wraps a speech synthesis backend failure
func Synthesis(err error, message string) *Error {
	return dependency(KindSynthesis, err, message)
}

// Storage wraps an object storage failure
func Storage(err error, message string) *Error {
	return dependency(KindStorage, err, message)
}

// Persistence wraps a database failure
func Persistence(err error, message string) *Error {
	return dependency(KindPersistence, err, message)
}

func dependency(kind string, err error, message string) *Error {
	return &Error{
		Code:    http.StatusInternalServerError,
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   captureStack(),
	}
}

// Wrap wraps an error with message, keeping the original code and kind
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return &Error{Code: e.Code, Kind: e.Kind, Message: message, Err: e, Stack: e.Stack}
	}
	return &Error{
		Code:    http.StatusInternalServerError,
		Kind:    KindUnknown,
		Message: message,
		Err:     err,
		Stack:   captureStack(),
	}
}

// New creates a new error
func New(message string) *Error {
	return &Error{
		Code:    http.StatusInternalServerError,
		Kind:    KindUnknown,
		Message: message,
		Stack:   captureStack(),
	}
}

// Errorf creates a new formatted error
func Errorf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// captureStack captures the current stack trace
func captureStack() string {
	buf := make([]byte, 1024)
	n := runtime.Stack(buf, false)
	stack := string(buf[:n])

	// 移除顶部几行（captureStack 和构造函数本身）
	lines := strings.Split(stack, "\n")
	if len(lines) > 6 {
		stack = strings.Join(lines[6:], "\n")
	}

	return strings.TrimSpace(stack)
}

// GetCode returns the HTTP status for an error, defaulting to 500
func GetCode(err error) int {
	if e, ok := err.(*Error); ok && e.Code != 0 {
		return e.Code
	}
	return http.StatusInternalServerError
}

// GetKind returns the error kind
func GetKind(err error) string {
	if e, ok := err.(*Error); ok && e.Kind != "" {
		return e.Kind
	}
	return KindUnknown
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Cause returns the underlying error
func Cause(err error) error {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Err != nil {
			err = e.Err
		} else {
			return err
		}
	}
	return err
}
