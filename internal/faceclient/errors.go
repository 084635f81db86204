package faceclient

import (
	"errors"
	"fmt"
)

const maxErrorBody = 4 << 10

var (
	// ErrRequest marks requests that could not be built, such as a malformed base URL.
	ErrRequest = errors.New("invalid request")
	// ErrTransport marks requests that produced no usable response.
	ErrTransport = errors.New("transport failure")
	// ErrStatus marks non-2xx responses. The concrete error is a *StatusError.
	ErrStatus = errors.New("unexpected status")
	// ErrDecode marks 2xx responses whose body was not the expected JSON.
	ErrDecode = errors.New("malformed response")
)

// StatusError carries the HTTP status of a rejected request.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("face service error %s", e.Status)
	}
	return fmt.Sprintf("face service error %s: %s", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// IsFailure reports whether err came from a call that never produced a Reply.
func IsFailure(err error) bool {
	return errors.Is(err, ErrRequest) || errors.Is(err, ErrTransport) || errors.Is(err, ErrStatus) || errors.Is(err, ErrDecode)
}
