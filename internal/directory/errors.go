package directory

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/hr-portal/internal"
)

// ErrorKind tags the way a directory call failed.
type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"
	KindHTTP        ErrorKind = "http"
	KindApplication ErrorKind = "application"
	KindDecode      ErrorKind = "decode"
)

// Error is returned by every Client method that fails. Message is the backend text when the
// backend supplied one, otherwise the fallback of the calling operation.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError reports whether err carries a *Error.
func AsError(err error) (*Error, bool) {
	var dirErr *Error
	if errors.As(err, &dirErr) {
		return dirErr, true
	}
	return nil, false
}

// AppError maps the failure onto the status and code the BFF answers with.
func (e *Error) AppError() *internal.AppError {
	switch e.Kind {
	case KindHTTP:
		status := e.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		return internal.NewExternalError(e.Message, internal.ErrCodeDirectoryRejected, status, e)
	case KindApplication:
		return internal.NewExternalError(e.Message, internal.ErrCodeDirectoryRejected, http.StatusUnprocessableEntity, e)
	default:
		return internal.NewExternalError(e.Message, internal.ErrCodeDirectoryUnavailable, http.StatusBadGateway, e)
	}
}

// ToAppError maps a directory failure onto an AppError. Errors that are not directory
// errors are returned unchanged.
func ToAppError(err error) error {
	dirErr, ok := AsError(err)
	if !ok {
		return err
	}
	return dirErr.AppError()
}
