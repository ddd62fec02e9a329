package statsapi

import (
	"errors"
	"net/http"
)

// DefaultFetchMessage is shown when no better description is available.
const DefaultFetchMessage = "Error fetching data"

// FetchError is the single failure type surfaced to pages. Transport failures,
// non-2xx responses and malformed bodies all collapse into it.
type FetchError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return DefaultFetchMessage
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err carries a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func statusError(endpoint string, status int) *FetchError {
	msg := DefaultFetchMessage
	if text := http.StatusText(status); text != "" {
		msg = DefaultFetchMessage + ": " + text
	}
	return &FetchError{Endpoint: endpoint, Status: status, Message: msg}
}

func wrapError(endpoint string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Endpoint: endpoint, Message: err.Error(), Err: err}
}
