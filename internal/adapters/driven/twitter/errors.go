package twitter

import (
	"fmt"
	"net/http"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// APIError represents an error response from the remote search API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap maps the status onto the domain taxonomy: authorization
// rejections are ErrAuthFailed, everything else is ErrUpstream.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return domain.ErrAuthFailed
	}
	return domain.ErrUpstream
}
