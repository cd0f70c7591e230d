// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/apiclient"
	"github.com/unclebandit/campaign-dashboard/internal/app"
	"github.com/unclebandit/campaign-dashboard/internal/config"
	"github.com/unclebandit/campaign-dashboard/internal/controller"
	"github.com/unclebandit/campaign-dashboard/internal/handler"
	"github.com/unclebandit/campaign-dashboard/internal/logger"
	"github.com/unclebandit/campaign-dashboard/internal/service"
	"github.com/unclebandit/campaign-dashboard/internal/view"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.NewDraftStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open wizard store", zap.Error(err))
	}
	defer closeStore()

	q, closeQueue, err := app.NewEventQueue(cfg.AMQP, zl)
	if err != nil {
		zl.Fatal("failed to open event queue", zap.Error(err))
	}
	defer closeQueue()

	api := apiclient.NewClient(cfg.API.BaseURL, cfg.API.Timeout, zl)

	wizards := service.NewWizardService(store, api, q, cfg.Store.TTL, zl)
	wizards.StaleAfter = 2 * cfg.API.Timeout

	ticker := time.NewTicker(cfg.Store.PurgeInterval)
	defer ticker.Stop()
	go service.NewJanitor(store, ticker.C, zl).Start(ctx)

	renderer, err := view.NewRenderer(time.Now, zl)
	if err != nil {
		zl.Fatal("failed to parse templates", zap.Error(err))
	}

	router := app.NewRouter(
		handler.NewCampaignHandler(service.NewCampaignService(api, zl), renderer),
		&controller.WizardController{WizardService: wizards, Renderer: renderer, Logger: zl},
		zl,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Run server in a separate goroutine so we can listen for shutdown signals
	go func() {
		zl.Info("dashboard listening", zap.String("addr", cfg.Server.Addr), zap.String("api", cfg.API.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	zl.Info("server stopped gracefully")
}
