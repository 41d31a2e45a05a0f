package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for any non-2xx backend response so callers can
// branch on the HTTP status (demo-mode latching keys off 401/403).
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Body)
}

// IsAuthError reports whether err is a 401 or 403 backend rejection.
func IsAuthError(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
}

func decodeJSON(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}
