package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

func sampleState(id string) wizard.State {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	draft := model.NewDraftCampaign()
	draft.Name = "Spring Sale"
	draft.Budget = 500
	draft.Channels = []model.Channel{{Name: "Facebook Ads", Account: []model.Account{}}}
	return wizard.State{
		ID:        id,
		Step:      wizard.StepPlatformFields,
		Draft:     draft,
		Schema:    model.AdditionalInputs{{Platform: "Facebook Ads", Fields: []string{"ad_account_id"}}},
		Fields:    model.PlatformFieldValues{"Facebook Ads": {"ad_account_id": "act_1"}},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestMemoryDraftStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryDraftStore()
	store.now = func() time.Time { return now }

	s := sampleState("a")
	require.NoError(t, store.Save(ctx, s, time.Minute))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, s, *got)

	got.Fields["Facebook Ads"]["ad_account_id"] = "mutated"
	again, _ := store.Get(ctx, "a")
	assert.Equal(t, "act_1", again.Fields["Facebook Ads"]["ad_account_id"])

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, appErrors.ErrWizardNotFound)
}

func TestMemoryDraftStoreExpiryAndPurge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryDraftStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, sampleState("short"), time.Minute))
	require.NoError(t, store.Save(ctx, sampleState("long"), time.Hour))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, appErrors.ErrWizardNotFound)

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestRedisDraftStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisDraftStore(client)

	s := sampleState("r1")
	require.NoError(t, store.Save(ctx, s, 30*time.Minute))
	assert.True(t, mr.Exists("wizard:session:r1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("wizard:session:r1"))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, s, *got)

	mr.FastForward(31 * time.Minute)
	_, err = store.Get(ctx, "r1")
	assert.ErrorIs(t, err, appErrors.ErrWizardNotFound)

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisDraftStoreDelete(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisDraftStore(client)

	require.NoError(t, store.Save(ctx, sampleState("r2"), time.Minute))
	require.NoError(t, store.Delete(ctx, "r2"))
	assert.False(t, mr.Exists("wizard:session:r2"))
}

func newMockStore(t *testing.T) (*PostgresDraftStore, sqlmock.Sqlmock, time.Time) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewPostgresDraftStore(db)
	store.now = func() time.Time { return now }
	return store, mock, now
}

func TestPostgresDraftStoreSave(t *testing.T) {
	store, mock, now := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wizard_sessions")).
		WithArgs("p1", sqlmock.AnyArg(), now.Add(time.Hour), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), sampleState("p1"), time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDraftStoreGet(t *testing.T) {
	store, mock, now := newMockStore(t)
	s := sampleState("p1")
	raw := `{"id":"p1","step":"collecting_platform_fields","draft":{"name":"Spring Sale","startDate":"","endDate":"","budget":500,"channels":[{"name":"Facebook Ads","account":[]}],"targetAudience":[]},"schema":[{"platform":"Facebook Ads","fields":["ad_account_id"]}],"fields":{"Facebook Ads":{"ad_account_id":"act_1"}},"loading":false,"created_at":"2025-03-01T09:00:00Z","updated_at":"2025-03-01T09:00:00Z"}`

	mock.ExpectQuery(regexp.QuoteMeta("SELECT state FROM wizard_sessions WHERE id=$1 AND expires_at > $2")).
		WithArgs("p1", now).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow([]byte(raw)))

	got, err := store.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, s.Draft, got.Draft)
	assert.Equal(t, s.Fields, got.Fields)
	assert.Equal(t, wizard.StepPlatformFields, got.Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDraftStoreGetMissing(t *testing.T) {
	store, mock, _ := newMockStore(t)
	mock.ExpectQuery("SELECT state FROM wizard_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"state"}))

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, appErrors.ErrWizardNotFound)
}

func TestPostgresDraftStoreDeleteAndPurge(t *testing.T) {
	store, mock, now := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM wizard_sessions WHERE id=$1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM wizard_sessions WHERE expires_at <= $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Delete(context.Background(), "p1"))
	n, err := store.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS wizard_sessions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), db))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS wizard_sessions").
		WillReturnError(errors.New("permission denied"))
	assert.ErrorContains(t, Migrate(context.Background(), db), "permission denied")

	assert.NoError(t, mock.ExpectationsWereMet())
}
