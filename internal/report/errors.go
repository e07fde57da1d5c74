package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is matched by every MalformedResponseError.
var ErrMalformedResponse = errors.New("malformed analysis response")

// MalformedResponseError reports a payload that is not valid JSON or lacks required keys.
type MalformedResponseError struct {
	Missing []string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required keys: %s", ErrMalformedResponse, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrMalformedResponse, e.Err)
	}
	return ErrMalformedResponse.Error()
}

func (e *MalformedResponseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedResponse}
	}
	return []error{ErrMalformedResponse, e.Err}
}
