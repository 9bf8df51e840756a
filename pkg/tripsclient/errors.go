package tripsclient

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned by Session methods when the API rejects the
// token (expired, revoked, or the account was deactivated).
var ErrSessionExpired = errors.New("tripsclient: session expired")

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("tripsclient: http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("tripsclient: %s (%d): %s", e.Code, e.Status, e.Message)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
