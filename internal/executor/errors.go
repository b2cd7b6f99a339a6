package executor

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by executors that cannot carry out a command
var ErrUnsupported = errors.New("command not supported by executor")

// RemoteError is a failure reported by the remote end
type RemoteError struct {
	HTTPStatus int
	Status     int    // legacy JSON Wire status code, 0 for W3C responses
	Code       string // W3C error code, e.g. "no such element"
	Message    string
}

func (e *RemoteError) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("remote error %q (http %d): %s", e.Code, e.HTTPStatus, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("remote error status %d (http %d): %s", e.Status, e.HTTPStatus, e.Message)
	default:
		return fmt.Sprintf("remote error (http %d): %s", e.HTTPStatus, e.Message)
	}
}
