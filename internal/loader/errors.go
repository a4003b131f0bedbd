package loader

import (
	"errors"
	"net/http"

	"github.com/sunil-gumatimath/react-router/internal/jobs"
)

const (
	MsgJobListNotFound    = "Could not find job list"
	MsgJobDetailsNotFound = "Could not find job details"
	MsgMalformedPayload   = "The job data could not be read"
)

// FetchFailure is the failure a loader raises when the jobs API cannot serve
// the requested data. Its Error text is the user-facing message.
type FetchFailure struct {
	Message    string
	StatusCode int // upstream status, 0 for transport failures
	Err        error
}

func (f *FetchFailure) Error() string {
	return f.Message
}

func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// NotFound reports whether the upstream answered 404.
func (f *FetchFailure) NotFound() bool {
	return f.StatusCode == http.StatusNotFound
}

// MalformedPayloadError is raised when the jobs API answered successfully but
// the body is not a valid job record or collection.
type MalformedPayloadError struct {
	Message string
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	return e.Message
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text an error boundary displays for err.
func UserMessage(err error) string {
	var fetchFailure *FetchFailure
	if errors.As(err, &fetchFailure) {
		return fetchFailure.Message
	}
	var malformed *MalformedPayloadError
	if errors.As(err, &malformed) {
		return malformed.Message
	}
	return "Something went wrong"
}

// Detail describes err for operators: its text followed by the cause a
// loader failure hides from users.
func Detail(err error) string {
	detail := err.Error()
	var fetchFailure *FetchFailure
	if errors.As(err, &fetchFailure) && fetchFailure.Err != nil {
		return detail + ": " + fetchFailure.Err.Error()
	}
	var malformed *MalformedPayloadError
	if errors.As(err, &malformed) && malformed.Err != nil {
		return detail + ": " + malformed.Err.Error()
	}
	return detail
}

func newFetchFailure(message string, err error) *FetchFailure {
	failure := &FetchFailure{Message: message, Err: err}
	var statusErr *jobs.StatusError
	if errors.As(err, &statusErr) {
		failure.StatusCode = statusErr.StatusCode
	}
	return failure
}
