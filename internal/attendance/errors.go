package attendance

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidForm means a submit was refused before any request was issued.
	ErrInvalidForm = errors.New("form incomplete")
	// ErrInvalidFile means a selected file was not an image.
	ErrInvalidFile = errors.New("not an image file")
	// ErrBusy means the workflow already has a request in flight.
	ErrBusy = errors.New("workflow in flight")
)

// RejectedError is a well-formed backend reply with success=false.
type RejectedError struct {
	Workflow Workflow
	Message  string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Workflow, e.Message)
}
