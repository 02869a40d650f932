package render

import (
	"errors"
	"fmt"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Messages shown for each error kind.
const (
	MessageTransport = "Could not reach the catalog. Check your connection and try again."
	MessageMalformed = "The catalog sent data that could not be read."
	MessageGeneric   = "Something went wrong. Please try again."
)

// ErrorMessage maps err to text for the user. NotFound and InvalidInput
// errors show their own message verbatim; unknown kinds get a generic
// message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *apperrors.AppError
	hasAppErr := errors.As(err, &appErr)

	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound, apperrors.KindInvalidInput:
		if hasAppErr && appErr.Message != "" {
			return appErr.Message
		}
		return MessageGeneric
	case apperrors.KindTransport:
		return MessageTransport
	case apperrors.KindMalformed:
		return MessageMalformed
	case apperrors.KindHTTP:
		if hasAppErr && appErr.Status != 0 {
			return fmt.Sprintf("The catalog answered with an error (%d): %s", appErr.Status, appErr.Message)
		}
		return MessageGeneric
	default:
		return MessageGeneric
	}
}
