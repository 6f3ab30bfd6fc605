package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound marks a "not found"-class response. For a stat call it is the
	// expected negative answer, not a failure.
	ErrNotFound = errors.New("remote path not found")
	// ErrUnauthorized marks rejected credentials
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict marks a destination that already exists
	ErrConflict = errors.New("remote path already exists")
)

// StatusError is a non-success HTTP response from the storage server
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	// Foreign is set when the body was not a storage server response, e.g. a
	// router 404 for a wrong base URL. Such errors map to no sentinel.
	Foreign bool
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Foreign {
		return fmt.Sprintf("%s %s: %d %s (not a storage server response)", e.Method, e.Path, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps well-known status codes onto the package sentinels
func (e *StatusError) Unwrap() error {
	if e.Foreign {
		return nil
	}
	switch e.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusConflict, http.StatusPreconditionFailed:
		return ErrConflict
	default:
		return nil
	}
}

// IsNotFound reports whether err is a "not found"-class error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
