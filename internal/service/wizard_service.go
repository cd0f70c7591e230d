// internal/service/wizard_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/queue"
	"github.com/unclebandit/campaign-dashboard/internal/repository"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

// WizardService keeps campaign wizards in a DraftStore across requests and
// reports their progress on the wizard events queue.
type WizardService struct {
	Store   repository.DraftStore
	Backend wizard.Backend
	Queue   queue.Queue
	Logger  *zap.Logger
	TTL     time.Duration
	// StaleAfter clears a loading flag left behind by a request that never
	// finished. Zero disables the check.
	StaleAfter time.Duration

	newID func() string
	now   func() time.Time

	mu     sync.Mutex
	active map[string]struct{}
}

func NewWizardService(store repository.DraftStore, backend wizard.Backend, q queue.Queue, ttl time.Duration, logger *zap.Logger) *WizardService {
	return &WizardService{
		Store:   store,
		Backend: backend,
		Queue:   q,
		Logger:  logger,
		TTL:     ttl,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Open starts a new session in the basics step.
func (s *WizardService) Open(ctx context.Context) (wizard.State, error) {
	w := wizard.New(s.newID(), s.Backend, wizard.WithClock(s.now))
	st := w.State()
	if err := s.Store.Save(ctx, st, s.TTL); err != nil {
		return wizard.State{}, fmt.Errorf("failed to open wizard: %w", err)
	}
	s.publish(model.WizardOpened, st)
	return st, nil
}

func (s *WizardService) Get(ctx context.Context, id string) (wizard.State, error) {
	st, err := s.Store.Get(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}
	return s.unstick(*st), nil
}

// Update loads the session, applies action and stores the outcome. Terminal
// sessions are deleted. A UIError from action is already reflected in the
// returned state; callers render it rather than fail.
func (s *WizardService) Update(ctx context.Context, id string, action func(ctx context.Context, w *wizard.Wizard) error) (wizard.State, error) {
	if !s.acquire(id) {
		return wizard.State{}, appErrors.ErrBusy
	}
	defer s.release(id)

	before, err := s.Get(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}

	w := wizard.Restore(before, s.Backend,
		wizard.WithClock(s.now),
		wizard.WithCheckpoint(func(ctx context.Context, st wizard.State) error {
			return s.Store.Save(ctx, st, s.TTL)
		}),
		wizard.WithCompletion(func(ctx context.Context, st wizard.State) {
			s.Logger.Info("campaign created", zap.String("wizard_id", st.ID), zap.String("campaign", st.Draft.Name))
		}),
	)

	actErr := action(ctx, w)
	if errors.Is(actErr, appErrors.ErrBusy) || errors.Is(actErr, appErrors.ErrInvalidTransition) {
		return w.State(), actErr
	}

	after := w.State()
	if after.Step.Terminal() {
		if err := s.Store.Delete(ctx, id); err != nil {
			return after, fmt.Errorf("failed to discard wizard: %w", err)
		}
	} else if err := s.Store.Save(ctx, after, s.TTL); err != nil {
		return after, fmt.Errorf("failed to save wizard: %w", err)
	}

	s.report(before, after, actErr)
	return after, actErr
}

// Cancel discards the session. A missing session is already gone.
func (s *WizardService) Cancel(ctx context.Context, id string) error {
	_, err := s.Update(ctx, id, func(_ context.Context, w *wizard.Wizard) error { return w.Cancel() })
	if errors.Is(err, appErrors.ErrWizardNotFound) {
		return nil
	}
	return err
}

// acquire marks id as being updated. Ids are held only while an update runs.
func (s *WizardService) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[id]; busy {
		return false
	}
	if s.active == nil {
		s.active = make(map[string]struct{})
	}
	s.active[id] = struct{}{}
	return true
}

func (s *WizardService) release(id string) {
	s.mu.Lock()
	delete(s.active, id)
	s.mu.Unlock()
}

func (s *WizardService) inFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *WizardService) unstick(st wizard.State) wizard.State {
	if st.Loading && s.StaleAfter > 0 && s.now().Sub(st.UpdatedAt) > s.StaleAfter {
		s.Logger.Warn("clearing stale loading flag", zap.String("wizard_id", st.ID))
		st.Loading = false
	}
	return st
}

// report derives the wizard events from one transition.
func (s *WizardService) report(before, after wizard.State, actErr error) {
	_, failed := appErrors.AsUIError(actErr)
	switch {
	case after.Step == wizard.StepCancelled:
		s.publish(model.WizardCancelled, after)
	case after.Step == wizard.StepSubmitted:
		s.publish(model.WizardSubmitted, after)
	case failed && after.Failure == wizard.FailureSchemaFetch:
		s.publish(model.WizardSchemaFailed, after)
	case failed && after.Failure == wizard.FailureSubmit:
		s.publish(model.WizardSubmitFailed, after)
	case before.Step == wizard.StepBasics && after.Step == wizard.StepPlatformFields:
		s.publish(model.WizardSchemaLoaded, after)
	}
}

// publish is best effort: the user action never fails because of it.
func (s *WizardService) publish(t model.WizardEventType, st wizard.State) {
	if s.Queue == nil {
		return
	}
	ev := model.WizardEvent{Type: t, WizardID: st.ID, CampaignName: st.Draft.Name, At: s.now()}
	if err := s.Queue.Publish(model.WizardEventsTopic, ev); err != nil {
		s.Logger.Warn("failed to publish wizard event", zap.String("type", string(t)), zap.Error(err))
	}
}
