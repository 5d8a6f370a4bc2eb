package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// apiKeyLength is the exact length of a valid catalog API key.
const apiKeyLength = 50

// Error taxonomy for catalog operations. Callers classify with
// errors.Is; every branch maps to a distinct recovery strategy.
var (
	// ErrInvalidCredential means the API key is missing or malformed.
	// No network call is attempted.
	ErrInvalidCredential = errors.New("no API key or API key is in incorrect format")

	// ErrQuotaExceeded means the request quota is exhausted (HTTP 429).
	ErrQuotaExceeded = errors.New("number of API requests exceeded, upgrade your plan or wait for the limit to reset")

	// ErrNotFound means the identity has no canonical match.
	ErrNotFound = errors.New("show not found")

	// ErrUpstream means the catalog API failed server-side (HTTP 5xx).
	ErrUpstream = errors.New("catalog API server error")

	// ErrTransport means the request failed before a usable response
	// arrived: network error, malformed body, or an unexpected status.
	ErrTransport = errors.New("catalog API request failed")
)

// classifyStatus maps a non-2xx response to the error taxonomy.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		if msg := apiMessage(body); msg != "" {
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, msg)
		}
		return ErrQuotaExceeded
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrInvalidCredential
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUpstream, status)
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrTransport, status)
	}
}

// apiMessage extracts the human-readable message from an API error
// body, or "" if the body can't be parsed.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
