package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

var clock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newWizardService(t *testing.T, api *fakeAPI) (*WizardService, *mapStore, *recordingQueue) {
	store := newMapStore()
	q := &recordingQueue{}
	svc := NewWizardService(store, api, q, 30*time.Minute, zaptest.NewLogger(t))
	svc.newID = func() string { return "w1" }
	svc.now = func() time.Time { return clock }
	return svc, store, q
}

func springBasics() wizard.Basics {
	budget := 500.0
	return wizard.Basics{Name: "Spring Sale", StartDate: "2025-03-01", EndDate: "2025-03-31", Budget: &budget}
}

func submitBasics(b wizard.Basics) func(context.Context, *wizard.Wizard) error {
	return func(ctx context.Context, w *wizard.Wizard) error { return w.SubmitBasics(ctx, b) }
}

func TestWizardServiceHappyPath(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{schema: model.AdditionalInputs{{Platform: "Facebook Ads", Fields: []string{"ad_account_id"}}}}
	svc, store, q := newWizardService(t, api)

	st, err := svc.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, "w1", st.ID)
	assert.Contains(t, store.states, "w1")

	st, err = svc.Update(ctx, "w1", func(ctx context.Context, w *wizard.Wizard) error {
		if err := w.ToggleChannel("Facebook Ads"); err != nil {
			return err
		}
		return w.SubmitBasics(ctx, springBasics())
	})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepPlatformFields, st.Step)

	st, err = svc.Update(ctx, "w1", func(ctx context.Context, w *wizard.Wizard) error { return w.Submit(ctx) })
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSubmitted, st.Step)
	assert.NotContains(t, store.states, "w1", "submitted sessions are discarded")
	require.Len(t, api.created, 1)
	assert.Equal(t, "Spring Sale", api.created[0].Name)

	assert.Equal(t, []model.WizardEventType{model.WizardOpened, model.WizardSchemaLoaded, model.WizardSubmitted}, q.types())
	assert.Equal(t, "Spring Sale", q.events[2].CampaignName)
}

func TestWizardServiceCheckpointPersistsLoading(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{schema: model.AdditionalInputs{}}
	svc, store, _ := newWizardService(t, api)
	_, err := svc.Open(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "w1", submitBasics(springBasics()))
	require.NoError(t, err)

	require.Len(t, store.saves, 3, "open, checkpoint, final")
	assert.True(t, store.saves[1].Loading)
	assert.False(t, store.saves[2].Loading)
}

func TestWizardServiceSchemaFailureIsStoredAndRetried(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{schemaErr: errors.New("boom")}
	svc, store, q := newWizardService(t, api)
	_, _ = svc.Open(ctx)

	st, err := svc.Update(ctx, "w1", submitBasics(springBasics()))
	_, isUI := appErrors.AsUIError(err)
	require.True(t, isUI)
	assert.Equal(t, wizard.ViewError, st.View())
	assert.Equal(t, "Failed to fetch additional inputs", store.states["w1"].Error)

	api.schemaErr = nil
	st, err = svc.Update(ctx, "w1", func(ctx context.Context, w *wizard.Wizard) error { return w.Retry(ctx) })
	require.NoError(t, err)
	assert.Equal(t, wizard.StepPlatformFields, st.Step)
	assert.Equal(t, 2, api.schemaCalls)

	assert.Equal(t, []model.WizardEventType{model.WizardOpened, model.WizardSchemaFailed, model.WizardSchemaLoaded}, q.types())
}

func TestWizardServiceSubmitFailure(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{schema: model.AdditionalInputs{}, createErr: errors.New("500")}
	svc, store, q := newWizardService(t, api)
	_, _ = svc.Open(ctx)
	_, _ = svc.Update(ctx, "w1", submitBasics(springBasics()))

	st, err := svc.Update(ctx, "w1", func(ctx context.Context, w *wizard.Wizard) error { return w.Submit(ctx) })
	require.Error(t, err)
	assert.Equal(t, wizard.StepPlatformFields, st.Step)
	assert.Equal(t, "Failed to create campaign", store.states["w1"].Error)
	assert.Equal(t, model.WizardSubmitFailed, q.types()[len(q.types())-1])
}

func TestWizardServiceBusy(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newWizardService(t, &fakeAPI{})
	_, _ = svc.Open(ctx)

	t.Run("in-process lock", func(t *testing.T) {
		require.True(t, svc.acquire("w1"))
		defer svc.release("w1")
		_, err := svc.Update(ctx, "w1", func(context.Context, *wizard.Wizard) error { return nil })
		assert.ErrorIs(t, err, appErrors.ErrBusy)
		assert.Equal(t, 1, svc.inFlight(), "a rejected update leaves the holder in place")
	})

	t.Run("loading flag from another instance", func(t *testing.T) {
		st := store.states["w1"]
		st.Loading = true
		st.UpdatedAt = clock
		store.states["w1"] = st
		saves := len(store.saves)

		_, err := svc.Update(ctx, "w1", func(_ context.Context, w *wizard.Wizard) error { return w.ToggleChannel("Twitter") })
		assert.ErrorIs(t, err, appErrors.ErrBusy)
		assert.Len(t, store.saves, saves, "busy attempts do not write")
	})

	t.Run("stale loading flag is cleared", func(t *testing.T) {
		svc.StaleAfter = time.Minute
		st := store.states["w1"]
		st.Loading = true
		st.UpdatedAt = clock.Add(-time.Hour)
		store.states["w1"] = st

		got, err := svc.Get(ctx, "w1")
		require.NoError(t, err)
		assert.False(t, got.Loading)
	})
}

func TestWizardServiceValidationStillStoresInput(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newWizardService(t, &fakeAPI{})
	_, _ = svc.Open(ctx)

	b := springBasics()
	b.Budget = nil
	_, err := svc.Update(ctx, "w1", submitBasics(b))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "Spring Sale", store.states["w1"].Draft.Name)
}

func TestWizardServiceCancel(t *testing.T) {
	ctx := context.Background()
	svc, store, q := newWizardService(t, &fakeAPI{})
	_, _ = svc.Open(ctx)

	require.NoError(t, svc.Cancel(ctx, "w1"))
	assert.NotContains(t, store.states, "w1")
	assert.Equal(t, model.WizardCancelled, q.types()[1])

	_, err := svc.Get(ctx, "w1")
	assert.ErrorIs(t, err, appErrors.ErrWizardNotFound)
	assert.NoError(t, svc.Cancel(ctx, "w1"), "cancelling twice is harmless")
}

func TestWizardServiceUnknownSession(t *testing.T) {
	svc, _, _ := newWizardService(t, &fakeAPI{})
	_, err := svc.Update(context.Background(), "missing", func(context.Context, *wizard.Wizard) error { return nil })
	assert.ErrorIs(t, err, appErrors.ErrWizardNotFound)
}

func TestWizardServiceReleasesIdsAfterUpdate(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{schema: model.AdditionalInputs{{Platform: "Facebook Ads", Fields: []string{"ad_account_id"}}}}
	svc, _, _ := newWizardService(t, api)

	for i := 0; i < 1000; i++ {
		_, err := svc.Update(ctx, fmt.Sprintf("unknown-%d", i), func(context.Context, *wizard.Wizard) error { return nil })
		require.ErrorIs(t, err, appErrors.ErrWizardNotFound)
	}
	assert.Zero(t, svc.inFlight())

	_, _ = svc.Open(ctx)
	_, err := svc.Update(ctx, "w1", submitBasics(springBasics()))
	require.NoError(t, err)
	_, err = svc.Update(ctx, "w1", func(_ context.Context, w *wizard.Wizard) error { return w.Back() })
	require.NoError(t, err)
	assert.Zero(t, svc.inFlight(), "live sessions hold no entry between requests")
}
