// internal/app/deps.go
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/config"
	"github.com/unclebandit/campaign-dashboard/internal/db"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/queue"
	"github.com/unclebandit/campaign-dashboard/internal/repository"
)

// NewDraftStore opens the wizard session store selected by store.driver.
// The returned close func releases its connection.
func NewDraftStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.DraftStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return repository.NewMemoryDraftStore(), func() error { return nil }, nil
	case config.StoreRedis:
		client, err := db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("wizard sessions stored in redis", zap.String("address", cfg.Redis.Address))
		return repository.NewRedisDraftStore(client), client.Close, nil
	case config.StorePostgres:
		conn, err := db.OpenPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresDraftStore(conn), conn.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// NewEventQueue returns the AMQP queue when amqp.url is set. Otherwise events
// stay in process and are counted by a local subscriber.
func NewEventQueue(cfg config.AMQPConfig, logger *zap.Logger) (queue.Queue, func() error, error) {
	if cfg.URL == "" {
		q := queue.NewInMemoryQueue(logger)
		if err := queue.StartWizardEventSubscriber(q, logger); err != nil {
			return nil, nil, err
		}
		return q, func() error { q.Wait(); return nil }, nil
	}

	q, err := queue.DialAMQP(cfg.URL, logger)
	if err != nil {
		return nil, nil, err
	}
	q.Routes = map[string]string{model.WizardEventsTopic: cfg.Queue}
	return q, q.Close, nil
}
