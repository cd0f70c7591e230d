// internal/wizard/wizard.go
package wizard

import (
	"context"
	"time"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
)

// Backend is the slice of the campaign API the wizard needs.
type Backend interface {
	AdditionalInputs(ctx context.Context) (model.AdditionalInputs, error)
	CreateCampaign(ctx context.Context, draft model.DraftCampaign) error
}

type Option func(*Wizard)

// WithCheckpoint registers fn to run right after the loading flag is raised
// and before the network call, so the flag can be persisted.
func WithCheckpoint(fn func(ctx context.Context, s State) error) Option {
	return func(w *Wizard) { w.checkpoint = fn }
}

// WithCompletion registers fn to run once the campaign was created.
func WithCompletion(fn func(ctx context.Context, s State)) Option {
	return func(w *Wizard) { w.onComplete = fn }
}

func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// Wizard is the two-step campaign creation controller.
type Wizard struct {
	state      State
	backend    Backend
	checkpoint func(ctx context.Context, s State) error
	onComplete func(ctx context.Context, s State)
	now        func() time.Time
}

// New opens a wizard with an empty draft in the basics step.
func New(id string, backend Backend, opts ...Option) *Wizard {
	w := &Wizard{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	now := w.now()
	w.state = State{
		ID:        id,
		Step:      StepBasics,
		Draft:     model.NewDraftCampaign(),
		Fields:    model.PlatformFieldValues{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return w
}

// Restore rebuilds a wizard from a stored state.
func Restore(state State, backend Backend, opts ...Option) *Wizard {
	w := &Wizard{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	w.state = state.clone()
	if w.state.Draft.Channels == nil {
		w.state.Draft.Channels = []model.Channel{}
	}
	if w.state.Draft.TargetAudience == nil {
		w.state.Draft.TargetAudience = []model.TargetAudience{}
	}
	return w
}

// State returns a copy that callers may keep or store.
func (w *Wizard) State() State { return w.state.clone() }

func (w *Wizard) View() View { return w.state.View() }

// SetBasics records the step-one identity fields without validating them.
func (w *Wizard) SetBasics(b Basics) error {
	if err := w.editable(StepBasics); err != nil {
		return err
	}
	w.state.Draft.Name = b.Name
	w.state.Draft.StartDate = b.StartDate
	w.state.Draft.EndDate = b.EndDate
	w.state.Draft.Budget = 0
	if b.Budget != nil {
		w.state.Draft.Budget = *b.Budget
	}
	w.touch()
	return nil
}

func (w *Wizard) ToggleChannel(platform string) error {
	if err := w.editable(StepBasics); err != nil {
		return err
	}
	w.state.Draft.Channels = ToggleChannel(w.state.Draft.Channels, platform)
	w.touch()
	return nil
}

// AddAudience reports whether the record was accepted.
func (w *Wizard) AddAudience(rec model.TargetAudience) (bool, error) {
	if err := w.editable(StepBasics); err != nil {
		return false, err
	}
	var ok bool
	w.state.Draft.TargetAudience, ok = AddAudience(w.state.Draft.TargetAudience, rec)
	if ok {
		w.touch()
	}
	return ok, nil
}

func (w *Wizard) RemoveAudience(i int) (bool, error) {
	if err := w.editable(StepBasics); err != nil {
		return false, err
	}
	var ok bool
	w.state.Draft.TargetAudience, ok = RemoveAudience(w.state.Draft.TargetAudience, i)
	if ok {
		w.touch()
	}
	return ok, nil
}

// SubmitBasics stores b, runs the required-field checks and, when they pass,
// advances to the platform fields step.
func (w *Wizard) SubmitBasics(ctx context.Context, b Basics) error {
	if err := w.SetBasics(b); err != nil {
		return err
	}
	if err := b.Check(); err != nil {
		return err
	}
	return w.Next(ctx)
}

// Next fetches the additional-input schema and moves to step two. On failure
// the wizard stays on step one with the error panel up and the draft intact.
func (w *Wizard) Next(ctx context.Context) error {
	if err := w.editable(StepBasics); err != nil {
		return err
	}
	if err := w.startLoading(ctx); err != nil {
		return err
	}

	schema, err := w.backend.AdditionalInputs(ctx)
	w.state.Loading = false
	w.touch()
	if err != nil {
		return w.fail(FailureSchemaFetch, appErrors.NewSubmitFailed(appErrors.MsgAdditionalInputsFailed, err))
	}

	w.state.Schema = schema
	if w.state.Fields == nil {
		w.state.Fields = model.PlatformFieldValues{}
	}
	w.state.Step = StepPlatformFields
	return nil
}

// Back returns to step one without any network call; nothing is lost.
func (w *Wizard) Back() error {
	if err := w.editable(StepPlatformFields); err != nil {
		return err
	}
	w.state.Step = StepBasics
	w.touch()
	return nil
}

// SetField stores one step-two value. Unknown platform/field pairs are ignored.
func (w *Wizard) SetField(platform, field, value string) (bool, error) {
	if err := w.editable(StepPlatformFields); err != nil {
		return false, err
	}
	next, ok := w.state.Collector().Set(platform, field, value)
	if ok {
		w.state.Fields = next.values
		w.touch()
	}
	return ok, nil
}

// Submit posts the draft. The step-two values are deliberately not part of
// the payload.
func (w *Wizard) Submit(ctx context.Context) error {
	if err := w.editable(StepPlatformFields); err != nil {
		return err
	}
	if err := w.startLoading(ctx); err != nil {
		return err
	}

	err := w.backend.CreateCampaign(ctx, w.State().Draft)
	w.state.Loading = false
	w.touch()
	if err != nil {
		return w.fail(FailureSubmit, appErrors.NewSubmitFailed(appErrors.MsgCreateCampaignFailed, err))
	}

	w.state.Step = StepSubmitted
	if w.onComplete != nil {
		w.onComplete(ctx, w.State())
	}
	return nil
}

// Retry clears the error and, if the schema fetch failed, issues it again.
func (w *Wizard) Retry(ctx context.Context) error {
	if w.state.Error == "" || w.state.Step.Terminal() {
		return appErrors.ErrInvalidTransition
	}
	failure := w.state.Failure
	w.clearError()
	if failure == FailureSchemaFetch {
		return w.Next(ctx)
	}
	return nil
}

// Dismiss clears the error panel and returns to the form.
func (w *Wizard) Dismiss() error {
	if w.state.Error == "" || w.state.Step.Terminal() {
		return appErrors.ErrInvalidTransition
	}
	w.clearError()
	return nil
}

// Cancel discards the session from any non-terminal state.
func (w *Wizard) Cancel() error {
	if w.state.Step.Terminal() {
		return appErrors.ErrInvalidTransition
	}
	w.state.Step = StepCancelled
	w.state.Loading = false
	w.touch()
	return nil
}

func (w *Wizard) editable(step Step) error {
	if w.state.Loading {
		return appErrors.ErrBusy
	}
	if w.state.Step != step || w.state.Error != "" {
		return appErrors.ErrInvalidTransition
	}
	return nil
}

func (w *Wizard) startLoading(ctx context.Context) error {
	w.state.Loading = true
	w.touch()
	if w.checkpoint == nil {
		return nil
	}
	if err := w.checkpoint(ctx, w.State()); err != nil {
		w.state.Loading = false
		return err
	}
	return nil
}

func (w *Wizard) fail(f Failure, err error) error {
	w.state.Failure = f
	w.state.Error = appErrors.Message(err)
	return err
}

func (w *Wizard) clearError() {
	w.state.Error = ""
	w.state.Failure = FailureNone
	w.touch()
}

func (w *Wizard) touch() { w.state.UpdatedAt = w.now() }
