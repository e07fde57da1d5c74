package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitInFlight is returned when a submission is already running on the controller.
	ErrSubmitInFlight = errors.New("a report is already being analyzed")
	// ErrDomainRejected is matched by RejectionError.
	ErrDomainRejected = errors.New("document rejected by analysis service")
)

// User-facing notices.
const (
	MsgNoFile          = "Please select a file"
	MsgUnsupportedType = "Please upload a PDF or image file (JPG, PNG, etc.)"
	MsgTooLarge        = "The selected file is too large"
)

// ValidationError reasons.
const (
	ReasonNoFile          = "no_file"
	ReasonUnsupportedType = "unsupported_type"
	ReasonTooLarge        = "too_large"
)

// ValidationError is a local rejection raised before any network call.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError covers request failures and envelopes that cannot be decoded.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError is an envelope with success=false.
type ServiceError struct {
	Kind    Kind
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return "analysis service reported failure"
	}
	return e.Message
}

// RejectionError carries the service's explanation when it refuses the document.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrDomainRejected
}
