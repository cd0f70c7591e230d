// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Kind is the coarse failure class shown to users.
type Kind string

const (
	FetchFailed  Kind = "FETCH_FAILED"
	SubmitFailed Kind = "SUBMIT_FAILED"
)

// User-facing messages, one per view.
const (
	MsgDashboardFailed        = "Failed to fetch dashboard data"
	MsgCampaignsFailed        = "Failed to fetch dashboard data"
	MsgCampaignFailed         = "Failed to fetch campaign details"
	MsgLeadsFailed            = "Failed to fetch leads data"
	MsgAdditionalInputsFailed = "Failed to fetch additional inputs"
	MsgCreateCampaignFailed   = "Failed to create campaign"
)

// UIError collapses any transport, status or decoding failure into a static
// message. The cause is kept for logging only.
type UIError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *UIError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *UIError) Unwrap() error { return e.Err }

func NewFetchFailed(message string, err error) error {
	return &UIError{Kind: FetchFailed, Message: message, Err: err}
}

func NewSubmitFailed(message string, err error) error {
	return &UIError{Kind: SubmitFailed, Message: message, Err: err}
}

// AsUIError extracts the UIError from err's chain.
func AsUIError(err error) (*UIError, bool) {
	var ue *UIError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// Message returns the user-facing text for err, falling back to a generic one.
func Message(err error) string {
	if ue, ok := AsUIError(err); ok {
		return ue.Message
	}
	return "Something went wrong"
}

var (
	ErrWizardNotFound    = errors.New("wizard session not found")
	ErrBusy              = errors.New("a request is already in flight")
	ErrInvalidTransition = errors.New("action not allowed in current wizard state")
	ErrValidation        = errors.New("required fields missing")
)

// ValidationError lists the form fields that failed required checks.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %v", e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
