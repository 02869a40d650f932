package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// ErrorBody is the error payload of the catalog API: {"message": "..."}.
// The nested {"error": {"code", "message"}} envelope is accepted too.
type ErrorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (b ErrorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	if b.Error != nil {
		return b.Error.Message
	}
	return ""
}

// ServerError is returned by CircuitBreakerClient when the remote answered
// with a 5xx status. The body has already been read and closed.
type ServerError struct {
	StatusCode int
	Body       []byte
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. A 404 becomes NotFound carrying the server message
// verbatim; every other status becomes HTTPError with that status.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apperrors.HTTPError(resp.StatusCode, "")
	}
	return ErrorFromBody(resp.StatusCode, bodyBytes)
}

// ErrorFromBody maps a status code and an already-read body to an AppError.
func ErrorFromBody(status int, body []byte) error {
	message := ""
	var parsed ErrorBody
	if json.Unmarshal(body, &parsed) == nil {
		message = parsed.text()
	} else if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
		message = text
	}

	if status == http.StatusNotFound {
		if message == "" {
			message = "resource not found"
		}
		return apperrors.NotFound(message)
	}
	return apperrors.HTTPError(status, message)
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
