package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
)

type fakeBackend struct {
	schema      model.AdditionalInputs
	schemaErr   error
	createErr   error
	schemaCalls int
	created     []model.DraftCampaign
	onSchema    func()
}

func (f *fakeBackend) AdditionalInputs(ctx context.Context) (model.AdditionalInputs, error) {
	f.schemaCalls++
	if f.onSchema != nil {
		f.onSchema()
	}
	return f.schema, f.schemaErr
}

func (f *fakeBackend) CreateCampaign(ctx context.Context, d model.DraftCampaign) error {
	f.created = append(f.created, d)
	return f.createErr
}

func springSale() Basics {
	budget := 500.0
	return Basics{
		Name:      "Spring Sale",
		StartDate: "2025-03-01T09:00",
		EndDate:   "2025-03-31T18:00",
		Budget:    &budget,
	}
}

func TestSpringSaleEndToEnd(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{schema: model.AdditionalInputs{{Platform: "Facebook Ads", Fields: []string{"ad_account_id"}}}}
	var completed *State
	w := New("w1", backend, WithCompletion(func(ctx context.Context, s State) { completed = &s }))

	require.Equal(t, StepBasics, w.State().Step)
	require.NoError(t, w.ToggleChannel("Facebook Ads"))
	require.NoError(t, w.SubmitBasics(ctx, springSale()))

	s := w.State()
	assert.Equal(t, StepPlatformFields, s.Step)
	assert.Equal(t, 1, backend.schemaCalls)
	assert.Equal(t, []string{"Facebook Ads"}, s.Schema.Platforms())

	ok, err := w.SetField("Facebook Ads", "ad_account_id", "act_42")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, w.Submit(ctx))
	require.Len(t, backend.created, 1)
	body := backend.created[0]
	assert.Equal(t, "Spring Sale", body.Name)
	assert.Equal(t, 500.0, body.Budget)
	assert.Equal(t, []model.Channel{{Name: "Facebook Ads", Account: []model.Account{}}}, body.Channels)

	require.NotNil(t, completed)
	assert.Equal(t, StepSubmitted, completed.Step)
	assert.Equal(t, "act_42", completed.Fields["Facebook Ads"]["ad_account_id"], "values are kept locally")
}

func TestSchemaFetchFailureKeepsStepOneAndRetryRefetches(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{schemaErr: errors.New("dial tcp: connection refused")}
	w := New("w1", backend)
	require.NoError(t, w.ToggleChannel("Twitter"))

	err := w.SubmitBasics(ctx, springSale())
	ue, ok := appErrors.AsUIError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.SubmitFailed, ue.Kind)

	s := w.State()
	assert.Equal(t, StepBasics, s.Step)
	assert.Equal(t, ViewError, s.View())
	assert.Equal(t, appErrors.MsgAdditionalInputsFailed, s.Error)
	assert.Equal(t, "Spring Sale", s.Draft.Name)
	assert.Equal(t, []string{"Twitter"}, channelNames(s.Draft.Channels))

	assert.ErrorIs(t, w.Next(ctx), appErrors.ErrInvalidTransition, "error panel must be cleared first")

	backend.schemaErr = nil
	backend.schema = model.AdditionalInputs{{Platform: "Twitter", Fields: []string{"handle"}}}
	require.NoError(t, w.Retry(ctx))
	assert.Equal(t, 2, backend.schemaCalls)
	assert.Equal(t, StepPlatformFields, w.State().Step)
	assert.Equal(t, ViewForm, w.View())
}

func TestBasicsValidationBlocksNext(t *testing.T) {
	backend := &fakeBackend{}
	w := New("w1", backend)

	b := springSale()
	b.Name = ""
	err := w.SubmitBasics(context.Background(), b)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, backend.schemaCalls)
	assert.Equal(t, "2025-03-01T09:00", w.State().Draft.StartDate, "typed values are kept")
}

func TestBackPreservesEverything(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{schema: model.AdditionalInputs{{Platform: "Google Ads", Fields: []string{"customer_id"}}}}
	w := New("w1", backend)
	_, _ = w.AddAudience(fullAudience("Pros"))
	require.NoError(t, w.SubmitBasics(ctx, springSale()))
	_, _ = w.SetField("Google Ads", "customer_id", "c-1")

	require.NoError(t, w.Back())
	s := w.State()
	assert.Equal(t, StepBasics, s.Step)
	assert.Equal(t, "Spring Sale", s.Draft.Name)
	assert.Len(t, s.Draft.TargetAudience, 1)
	assert.Equal(t, "c-1", s.Fields["Google Ads"]["customer_id"])
	assert.Equal(t, 1, backend.schemaCalls, "back makes no network call")
}

func TestSubmitFailureKeepsDraftForRetry(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{schema: model.AdditionalInputs{}, createErr: errors.New("500")}
	w := New("w1", backend)
	require.NoError(t, w.SubmitBasics(ctx, springSale()))

	err := w.Submit(ctx)
	require.Error(t, err)
	s := w.State()
	assert.Equal(t, StepPlatformFields, s.Step)
	assert.Equal(t, appErrors.MsgCreateCampaignFailed, s.Error)
	assert.Equal(t, FailureSubmit, s.Failure)

	require.NoError(t, w.Dismiss())
	assert.Equal(t, ViewForm, w.View())

	backend.createErr = nil
	require.NoError(t, w.Submit(ctx))
	assert.Len(t, backend.created, 2, "a retried submit posts again")
	assert.Equal(t, StepSubmitted, w.State().Step)
}

func TestCheckpointSeesLoadingAndBlocksReentry(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{schema: model.AdditionalInputs{}}
	var seen []View
	var w *Wizard
	backend.onSchema = func() {
		assert.ErrorIs(t, w.ToggleChannel("TikTok"), appErrors.ErrBusy)
		assert.ErrorIs(t, w.Next(ctx), appErrors.ErrBusy)
	}
	w = New("w1", backend, WithCheckpoint(func(ctx context.Context, s State) error {
		seen = append(seen, s.View())
		return nil
	}))

	require.NoError(t, w.SubmitBasics(ctx, springSale()))
	assert.Equal(t, []View{ViewLoading}, seen)
	assert.False(t, w.State().Loading)
	assert.Equal(t, 1, backend.schemaCalls)
}

func TestCheckpointFailureAbortsCall(t *testing.T) {
	backend := &fakeBackend{}
	boom := errors.New("store down")
	w := New("w1", backend, WithCheckpoint(func(ctx context.Context, s State) error { return boom }))

	assert.ErrorIs(t, w.SubmitBasics(context.Background(), springSale()), boom)
	assert.Equal(t, 0, backend.schemaCalls)
	assert.Equal(t, ViewForm, w.View())
}

func TestTransitionsOutOfOrder(t *testing.T) {
	ctx := context.Background()
	w := New("w1", &fakeBackend{})

	assert.ErrorIs(t, w.Back(), appErrors.ErrInvalidTransition)
	assert.ErrorIs(t, w.Submit(ctx), appErrors.ErrInvalidTransition)
	assert.ErrorIs(t, w.Dismiss(), appErrors.ErrInvalidTransition)
	_, err := w.SetField("Facebook Ads", "x", "y")
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	require.NoError(t, w.Cancel())
	assert.Equal(t, StepCancelled, w.State().Step)
	assert.ErrorIs(t, w.Cancel(), appErrors.ErrInvalidTransition)
	assert.ErrorIs(t, w.ToggleChannel("Twitter"), appErrors.ErrInvalidTransition)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{schema: model.AdditionalInputs{{Platform: "LinkedIn", Fields: []string{"org_id"}}}}
	w := New("w1", backend)
	require.NoError(t, w.SubmitBasics(ctx, springSale()))
	_, _ = w.SetField("LinkedIn", "org_id", "o-9")

	restored := Restore(w.State(), backend)
	assert.Equal(t, w.State(), restored.State())

	_, _ = restored.SetField("LinkedIn", "org_id", "changed")
	assert.Equal(t, "o-9", w.State().Fields["LinkedIn"]["org_id"], "restored wizard must not alias the source")
}
