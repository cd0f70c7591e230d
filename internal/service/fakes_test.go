package service

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

type fakeAPI struct {
	dashboard   model.DashboardData
	campaigns   []model.Campaign
	campaign    model.Campaign
	leads       []model.Lead
	err         error
	leadsGate   chan struct{}
	schema      model.AdditionalInputs
	schemaErr   error
	createErr   error
	mu          sync.Mutex
	created     []model.DraftCampaign
	schemaCalls int
}

func (f *fakeAPI) Dashboard(ctx context.Context) (model.DashboardData, error) {
	return f.dashboard, f.err
}

func (f *fakeAPI) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return f.campaigns, f.err
}

func (f *fakeAPI) GetCampaign(ctx context.Context, id string) (model.Campaign, error) {
	return f.campaign, f.err
}

func (f *fakeAPI) CampaignLeads(ctx context.Context, id string) ([]model.Lead, error) {
	if f.leadsGate != nil {
		<-f.leadsGate
	}
	return f.leads, f.err
}

func (f *fakeAPI) AdditionalInputs(ctx context.Context) (model.AdditionalInputs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schemaCalls++
	return f.schema, f.schemaErr
}

func (f *fakeAPI) CreateCampaign(ctx context.Context, d model.DraftCampaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	return f.createErr
}

type recordingQueue struct {
	mu     sync.Mutex
	events []model.WizardEvent
}

func (q *recordingQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, payload.(model.WizardEvent))
	return nil
}

func (q *recordingQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}

func (q *recordingQueue) types() []model.WizardEventType {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.WizardEventType, 0, len(q.events))
	for _, ev := range q.events {
		out = append(out, ev.Type)
	}
	return out
}

// mapStore is a DraftStore without expiry that counts writes.
type mapStore struct {
	mu     sync.Mutex
	states map[string]wizard.State
	saves  []wizard.State
	purged int64
	purges int
}

func newMapStore() *mapStore { return &mapStore{states: map[string]wizard.State{}} }

func (m *mapStore) Get(ctx context.Context, id string) (*wizard.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[id]
	if !ok {
		return nil, appErrors.ErrWizardNotFound
	}
	return &s, nil
}

func (m *mapStore) Save(ctx context.Context, s wizard.State, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.ID] = s
	m.saves = append(m.saves, s)
	return nil
}

func (m *mapStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

func (m *mapStore) Purge(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purges++
	return m.purged, nil
}
