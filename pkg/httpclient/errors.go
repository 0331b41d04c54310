package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
)

// serverErrorBody mirrors the error shapes the Vastr backend produces:
// FastAPI-style {"detail": "..."} or the newer {"message": "..."}.
type serverErrorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// ServerMessage extracts the human-readable message from an error response
// body. Returns false when no parseable message is present.
func ServerMessage(body []byte) (string, bool) {
	var parsed serverErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false
	}
	if parsed.Message != "" {
		return parsed.Message, true
	}
	if parsed.Detail != "" {
		return parsed.Detail, true
	}
	return "", false
}

// ParseResponseError reads the body of a non-2xx HTTP response and
// translates it into an AppError. A 4xx with a parseable message becomes an
// auth rejection carrying that message verbatim; anything else degrades to
// the generic network error so screens never render raw transport detail.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, endpoint string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.NetworkUnavailable(
			fmt.Errorf("%s returned status %d (failed to read body: %w)", endpoint, resp.StatusCode, err))
	}

	if msg, ok := ServerMessage(bodyBytes); ok && resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return apperrors.AuthRejected(msg)
	}

	return apperrors.NetworkUnavailable(
		fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode, string(bodyBytes)))
}
