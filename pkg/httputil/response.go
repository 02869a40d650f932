package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// ErrorResponse is the error body the catalog API answers with. Message is
// shown to end users verbatim, so it is kept at the top level.
type ErrorResponse struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error body derived from err. AppErrors keep their own
// message and status; anything else becomes a 500 with a generic message and
// is logged. The request-scoped logger is preferred over fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := appErr.Status
		if status == 0 {
			status = apperrors.HTTPStatus(err)
		}
		WriteJSON(w, status, ErrorResponse{Message: appErr.Message, Code: appErr.Code, RequestID: requestID})
		return
	}

	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message:   "an internal error occurred",
		Code:      "INTERNAL_ERROR",
		RequestID: requestID,
	})
}

// ParseID parses a positive integer path parameter. On failure it writes a
// 400 response and returns false, signaling the caller to return early.
func ParseID(w http.ResponseWriter, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err != nil || id < 1 {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("Invalid id '%s'", param),
			Code:    apperrors.KindInvalidInput,
		})
		return 0, false
	}
	return id, true
}
