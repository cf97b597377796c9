package apperrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeImageDecode ErrorType = "image_decode"
	ErrorTypeExtraction  ErrorType = "extraction_service"
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeDateParse   ErrorType = "date_parse"
	ErrorTypeRelay       ErrorType = "relay"
	ErrorTypeInternal    ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []any {
	fields := []any{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errorType
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeDateParse:
		h.logger.WarnContext(ctx, "Record rejected", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Pipeline error", appErr.LogFields()...)
	}
}

// Convenience constructors for the pipeline error taxonomy
func NewImageDecodeError(err error) *AppError {
	return Wrap(err, ErrorTypeImageDecode, "IMAGE_DECODE", "Uploaded bytes are not a decodable image")
}

func NewExtractionError(err error) *AppError {
	return Wrap(err, ErrorTypeExtraction, "EXTRACTION_SERVICE", "Vision model request failed")
}

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewDateParseError(err error, value string) *AppError {
	return Wrap(err, ErrorTypeDateParse, "DATE_PARSE", fmt.Sprintf("Cannot parse date/time %q", value))
}

func NewRelayError(statusCode int, body string) *AppError {
	return New(ErrorTypeRelay, "RELAY", fmt.Sprintf("Treatment server returned %d: %s", statusCode, body))
}
