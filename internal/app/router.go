// internal/app/router.go
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/controller"
	"github.com/unclebandit/campaign-dashboard/internal/handler"
)

// NewRouter mounts the dashboard pages, the campaign wizard and the
// operational endpoints.
func NewRouter(campaigns *handler.CampaignHandler, wizard *controller.WizardController, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Pages
	r.Get("/", handler.Home)
	r.Get("/dashboard", campaigns.Dashboard)
	r.Get("/campaigns", campaigns.ListCampaigns)
	r.Get("/campaigns/{id}", campaigns.GetCampaign)
	r.Get("/campaigns/{id}/leads", campaigns.CampaignLeads)

	// Campaign wizard
	r.Post("/wizard", wizard.Open)
	r.Route("/wizard/{id}", func(r chi.Router) {
		r.Get("/", wizard.Show)
		r.Post("/basics", wizard.Basics)
		r.Post("/channels", wizard.ToggleChannel)
		r.Post("/audience", wizard.AddAudience)
		r.Post("/audience/{index}/remove", wizard.RemoveAudience)
		r.Post("/back", wizard.Back)
		r.Post("/submit", wizard.Submit)
		r.Post("/retry", wizard.Retry)
		r.Post("/dismiss", wizard.Dismiss)
		r.Post("/cancel", wizard.Cancel)
	})

	return r
}
