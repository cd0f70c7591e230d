// internal/wizard/state.go
package wizard

import (
	"time"

	"github.com/unclebandit/campaign-dashboard/internal/model"
)

type Step string

const (
	StepBasics         Step = "collecting_basics"
	StepPlatformFields Step = "collecting_platform_fields"
	StepSubmitted      Step = "submitted"
	StepCancelled      Step = "cancelled"
)

func (s Step) Terminal() bool {
	return s == StepSubmitted || s == StepCancelled
}

// Number is the 1-based step shown to users.
func (s Step) Number() int {
	if s == StepPlatformFields {
		return 2
	}
	return 1
}

// Failure records which request produced the error currently shown.
type Failure string

const (
	FailureNone        Failure = ""
	FailureSchemaFetch Failure = "schema_fetch"
	FailureSubmit      Failure = "submit"
)

// View is the single panel a wizard shows at a time.
type View string

const (
	ViewForm    View = "form"
	ViewLoading View = "loading"
	ViewError   View = "error"
)

// State is the serialisable wizard session kept in a draft store between
// requests.
type State struct {
	ID        string                    `json:"id"`
	Step      Step                      `json:"step"`
	Draft     model.DraftCampaign       `json:"draft"`
	Schema    model.AdditionalInputs    `json:"schema,omitempty"`
	Fields    model.PlatformFieldValues `json:"fields,omitempty"`
	Loading   bool                      `json:"loading"`
	Error     string                    `json:"error,omitempty"`
	Failure   Failure                   `json:"failure,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// View derives the visible panel: loading wins over error, error over form.
func (s State) View() View {
	switch {
	case s.Loading:
		return ViewLoading
	case s.Error != "":
		return ViewError
	}
	return ViewForm
}

// Collector exposes the step-two values against the fetched schema.
func (s State) Collector() FieldCollector {
	return NewFieldCollector(s.Schema, s.Fields)
}

func (s State) clone() State {
	out := s
	out.Draft.Channels = append([]model.Channel{}, s.Draft.Channels...)
	out.Draft.TargetAudience = append([]model.TargetAudience{}, s.Draft.TargetAudience...)
	out.Schema = append(model.AdditionalInputs(nil), s.Schema...)
	out.Fields = NewFieldCollector(s.Schema, s.Fields).Values()
	return out
}
