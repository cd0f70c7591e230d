// Package view renders the dashboard's server-side HTML pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/presenter"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names, one per file under templates/.
const (
	PageDashboard = "dashboard.html"
	PageCampaigns = "campaigns.html"
	PageCampaign  = "campaign.html"
	PageLeads     = "leads.html"
	PageWizard    = "wizard.html"
	PageError     = "error.html"
)

var pageNames = []string{PageDashboard, PageCampaigns, PageCampaign, PageLeads, PageWizard, PageError}

// Page is what every template receives. Body is page specific.
type Page struct {
	Title string
	Body  any
}

type Renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// NewRenderer parses the layout, shared partials and every page. now feeds
// the status badge so it is recomputed on each render.
func NewRenderer(now func() time.Time, logger *zap.Logger) (*Renderer, error) {
	base, err := template.New("layout.html").
		Funcs(presenter.FuncMap(now)).
		ParseFS(templatesFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.Must(base.Clone()).ParseFS(templatesFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes page with status. The page is rendered to a buffer first so
// a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	t, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown page", zap.String("page", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		r.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the generic message page.
func (r *Renderer) Error(w http.ResponseWriter, status int, message string) {
	r.Render(w, status, PageError, Page{Title: http.StatusText(status), Body: message})
}
