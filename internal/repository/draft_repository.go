// internal/repository/draft_repository.go
package repository

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

// DraftStore keeps wizard sessions between requests. Get returns
// appErrors.ErrWizardNotFound for missing or expired sessions.
type DraftStore interface {
	Get(ctx context.Context, id string) (*wizard.State, error)
	Save(ctx context.Context, s wizard.State, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// Purge removes expired sessions and reports how many were dropped.
	Purge(ctx context.Context) (int64, error)
}

type memoryEntry struct {
	state     wizard.State
	expiresAt time.Time
}

// MemoryDraftStore is the single-instance store used by default.
type MemoryDraftStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryDraftStore) Get(ctx context.Context, id string) (*wizard.State, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, appErrors.ErrWizardNotFound
	}
	s := restoreCopy(e.state)
	return &s, nil
}

func (m *MemoryDraftStore) Save(ctx context.Context, s wizard.State, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{state: restoreCopy(s), expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryDraftStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryDraftStore) Purge(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	var n int64
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

// restoreCopy detaches the stored state from the caller's slices and maps.
func restoreCopy(s wizard.State) wizard.State {
	return wizard.Restore(s, nil).State()
}
