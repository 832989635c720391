package qa

import (
	"errors"
	"fmt"
)

var (
	// ErrNotUploaded is returned by AskQuestion before a document has been uploaded.
	ErrNotUploaded      = errors.New("no document uploaded")
	ErrValidationFailed = errors.New("question is empty")
	ErrUploadFailed     = errors.New("upload failed")
	ErrRequestFailed    = errors.New("ask request failed")
	// ErrMalformedResponse means a 200 reply lacked fields the outcome requires.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a non-200 reply from the document API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
