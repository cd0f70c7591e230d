// internal/handler/campaign_handler.go
package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/presenter"
	"github.com/unclebandit/campaign-dashboard/internal/request"
	"github.com/unclebandit/campaign-dashboard/internal/service"
	"github.com/unclebandit/campaign-dashboard/internal/view"
)

// CampaignHandler serves the read-only dashboard pages
type CampaignHandler struct {
	Service  *service.CampaignService
	Renderer *view.Renderer
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(svc *service.CampaignService, renderer *view.Renderer) *CampaignHandler {
	return &CampaignHandler{Service: svc, Renderer: renderer}
}

type card struct {
	Title string
	Value string
}

type bar struct {
	Label string
	Value int64
	Width int
}

type dashboardBody struct {
	Panel         string
	Error         string
	CampaignCards []card
	LeadCards     []card
	Funnel        []bar
	Distribution  []bar
}

// Dashboard renders the analytics overview
func (h *CampaignHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	req := h.Service.Dashboard()
	res := req.Execute(r.Context())
	if !res.OK() {
		h.Renderer.Render(w, statusFor(res.Err), view.PageDashboard, view.Page{
			Title: "Dashboard",
			Body:  dashboardBody{Panel: req.Panel().String(), Error: appErrors.Message(res.Err)},
		})
		return
	}

	h.Renderer.Render(w, http.StatusOK, view.PageDashboard, view.Page{
		Title: "Dashboard",
		Body:  newDashboardBody(res.Data),
	})
}

func newDashboardBody(d model.DashboardData) dashboardBody {
	ca, la := d.CampaignAnalytics, d.LeadsAnalytics
	return dashboardBody{
		Panel: request.PanelReady.String(),
		CampaignCards: []card{
			{"Total Campaigns", strconv.FormatInt(ca.Campaigns, 10)},
			{"Total Leads", presenter.FormatNumber(ca.Leads)},
			{"Total Clicks", presenter.FormatNumber(ca.Clicks)},
			{"Total Impressions", presenter.FormatNumber(ca.Impressions)},
		},
		LeadCards: []card{
			{"Conversion Rate", presenter.Percent(la.Conversions, la.Leads)},
			{"Potential Revenue", presenter.FormatCurrency(la.PotentialRevenue)},
			{"Connected Leads", strconv.FormatInt(la.ConnectedLeads, 10)},
			{"Connection Rate", presenter.Percent(la.ConnectedLeads, la.Leads)},
		},
		Funnel: bars(
			bar{Label: "Impressions", Value: la.Impressions},
			bar{Label: "Clicks", Value: la.Clicks},
			bar{Label: "Leads", Value: la.Leads},
			bar{Label: "Conversions", Value: la.Conversions},
		),
		Distribution: bars(
			bar{Label: "Connected Leads", Value: la.ConnectedLeads},
			bar{Label: "Unconnected Leads", Value: la.UnconnectedLeads},
		),
	}
}

// bars scales widths against the largest value.
func bars(in ...bar) []bar {
	var max int64
	for _, b := range in {
		if b.Value > max {
			max = b.Value
		}
	}
	for i := range in {
		if max > 0 {
			in[i].Width = int(in[i].Value * 100 / max)
		}
	}
	return in
}

type campaignsBody struct {
	Panel     string
	Error     string
	Campaigns []model.Campaign
}

// ListCampaigns renders campaign cards
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	req := h.Service.Campaigns()
	res := req.Execute(r.Context())
	body := campaignsBody{Panel: req.Panel().String(), Error: appErrors.Message(res.Err), Campaigns: res.Data}
	h.Renderer.Render(w, statusFor(res.Err), view.PageCampaigns, view.Page{Title: "Campaigns", Body: body})
}

type column struct {
	Label string
	Href  string
	Arrow string
}

type leadsBody struct {
	Panel      string
	Error      string
	Leads      []model.Lead
	Columns    []column
	RefreshURL string
}

type campaignBody struct {
	Panel    string
	Error    string
	Campaign model.Campaign
	Leads    leadsBody
}

// GetCampaign renders one campaign with its leads table. The leads fetch
// runs alongside the campaign fetch and is dropped if the handler is gone.
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sort := sortFrom(r)

	life := request.NewLifetime()
	defer life.End()

	leadsReq := h.Service.Leads(id)
	leadsCh := leadsReq.Go(r.Context(), life)

	campaignReq := h.Service.Campaign(id)
	res := campaignReq.Execute(r.Context())
	if !res.OK() {
		h.Renderer.Render(w, statusFor(res.Err), view.PageCampaign, view.Page{
			Title: "Campaign",
			Body:  campaignBody{Panel: campaignReq.Panel().String(), Error: appErrors.Message(res.Err)},
		})
		return
	}

	var leads request.Result[[]model.Lead]
	select {
	case leads = <-leadsCh:
	case <-r.Context().Done():
		return
	}

	h.Renderer.Render(w, http.StatusOK, view.PageCampaign, view.Page{
		Title: res.Data.Name,
		Body: campaignBody{
			Panel:    campaignReq.Panel().String(),
			Campaign: res.Data,
			Leads:    newLeadsBody("/campaigns/"+url.PathEscape(id), leads, sort),
		},
	})
}

// CampaignLeads renders the leads table on its own
func (h *CampaignHandler) CampaignLeads(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := h.Service.Leads(id).Execute(r.Context())
	body := newLeadsBody("/campaigns/"+url.PathEscape(id)+"/leads", res, sortFrom(r))
	h.Renderer.Render(w, statusFor(res.Err), view.PageLeads, view.Page{Title: "Leads", Body: body})
}

func sortFrom(r *http.Request) service.SortConfig {
	q := r.URL.Query()
	if q.Get("sort") == "" && q.Get("dir") == "" {
		return service.DefaultSort
	}
	return service.ParseSort(q.Get("sort"), q.Get("dir"))
}

func newLeadsBody(base string, res request.Result[[]model.Lead], sort service.SortConfig) leadsBody {
	link := func(c service.SortConfig) string {
		return base + "?" + url.Values{"sort": {string(c.Key)}, "dir": {string(c.Direction)}}.Encode()
	}
	sortable := func(label string, key service.SortKey) column {
		col := column{Label: label, Href: link(sort.Toggle(key))}
		if sort.Key == key {
			col.Arrow = " ↑"
			if sort.Direction == service.Desc {
				col.Arrow = " ↓"
			}
		}
		return col
	}

	body := leadsBody{
		Panel: request.PanelReady.String(),
		Columns: []column{
			sortable("Name", service.SortByName),
			{Label: "Email"},
			{Label: "Job"},
			{Label: "Address"},
			sortable("Created", service.SortByCreatedAt),
			sortable("Score", service.SortByScore),
		},
		RefreshURL: link(sort),
	}
	if !res.OK() {
		body.Panel = request.PanelError.String()
		body.Error = appErrors.Message(res.Err)
		return body
	}
	body.Leads = sort.Apply(res.Data)
	return body
}

// statusFor maps a view fetch error to the page status. The backend being
// unreachable or failing is a bad gateway from the dashboard's side.
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if _, ok := appErrors.AsUIError(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Home redirects to the dashboard
func Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
