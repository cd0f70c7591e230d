// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/config"
	"github.com/unclebandit/campaign-dashboard/internal/logger"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if cfg.AMQP.URL == "" {
		zl.Fatal("amqp.url is required for the worker")
	}

	q, err := queue.DialAMQP(cfg.AMQP.URL, zl)
	if err != nil {
		zl.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer q.Close()
	q.Routes = map[string]string{model.WizardEventsTopic: cfg.AMQP.Queue}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.Worker.MetricsAddr, Handler: mux}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("metrics server failed", zap.Error(err))
		}
	}()

	if err := run(ctx, q, zl); err != nil {
		zl.Error("worker stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}

// run consumes wizard events until ctx is cancelled.
func run(ctx context.Context, q queue.Queue, logger *zap.Logger) error {
	if err := queue.StartWizardEventSubscriber(q, logger); err != nil {
		return err
	}
	logger.Info("worker running, waiting for wizard events")
	<-ctx.Done()
	logger.Info("worker shutting down")
	return nil
}
