package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind codes carried in AppError.Code. Every failure that leaves the catalog
// client is classified as exactly one of these.
const (
	KindTransport    = "TRANSPORT"
	KindHTTP         = "HTTP_ERROR"
	KindNotFound     = "NOT_FOUND"
	KindMalformed    = "MALFORMED"
	KindInvalidInput = "INVALID_INPUT"
	KindUnknown      = "UNKNOWN"
)

// Standard sentinel errors for common cases.
var (
	ErrTransport    = errors.New("transport failure")
	ErrHTTP         = errors.New("unexpected http status")
	ErrNotFound     = errors.New("resource not found")
	ErrMalformed    = errors.New("malformed payload")
	ErrInvalidInput = errors.New("invalid input")
)

// AppError represents a structured error with a kind code and, for HTTP
// failures, the status the remote answered with.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// kindError joins the kind sentinel with the underlying cause so that both
// errors.Is(err, ErrTransport) and errors.Is(err, context.Canceled) hold.
type kindError struct {
	kind  error
	cause error
}

func (k *kindError) Error() string   { return k.cause.Error() }
func (k *kindError) Unwrap() []error { return []error{k.kind, k.cause} }

func withKind(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return &kindError{kind: kind, cause: cause}
}

// Transport creates an error for a request that never produced a usable
// response (network unreachable, timeout, cancelled, circuit open).
func Transport(err error) *AppError {
	return &AppError{
		Code:    KindTransport,
		Message: "catalog unreachable",
		Err:     withKind(ErrTransport, err),
	}
}

// HTTPError creates an error for a non-2xx response. message is the server's
// own message when it sent one.
func HTTPError(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &AppError{
		Code:    KindHTTP,
		Message: message,
		Status:  status,
		Err:     ErrHTTP,
	}
}

// NotFound creates a 404 error. message is kept verbatim so the view can show
// exactly what the server said.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    KindNotFound,
		Message: message,
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Malformed creates an error for a payload whose shape could not be used.
func Malformed(err error) *AppError {
	return &AppError{
		Code:    KindMalformed,
		Message: "unexpected payload shape",
		Err:     withKind(ErrMalformed, err),
	}
}

// InvalidInput creates an error for a caller-side contract violation.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    KindInvalidInput,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf classifies err into one of the Kind codes. Errors that carry no
// classification report KindUnknown.
func KindOf(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrMalformed):
		return KindMalformed
	case errors.Is(err, ErrHTTP):
		return KindHTTP
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
