package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/metrics"
	"github.com/unclebandit/campaign-dashboard/internal/repository"
)

// Janitor drops expired wizard sessions on every tick
type Janitor struct {
	Store  repository.DraftStore
	Ticks  <-chan time.Time
	Logger *zap.Logger
}

// Constructor
func NewJanitor(store repository.DraftStore, ticks <-chan time.Time, logger *zap.Logger) *Janitor {
	return &Janitor{
		Store:  store,
		Ticks:  ticks,
		Logger: logger,
	}
}

// Start purges until ctx is done or the tick channel closes
func (j *Janitor) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-j.Ticks:
			if !ok {
				return
			}
			j.purge(ctx)
		}
	}
}

func (j *Janitor) purge(ctx context.Context) {
	n, err := j.Store.Purge(ctx)
	if err != nil {
		j.Logger.Warn("failed to purge wizard sessions", zap.Error(err))
		return
	}
	if n > 0 {
		metrics.WizardSessionsPurged.Add(float64(n))
		j.Logger.Info("purged expired wizard sessions", zap.Int64("count", n))
	}
}
