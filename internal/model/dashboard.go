// internal/model/dashboard.go
package model

type CampaignAnalytics struct {
	Campaigns   int64 `json:"campaigns"`
	Leads       int64 `json:"leads"`
	Clicks      int64 `json:"clicks"`
	Impressions int64 `json:"impressions"`
	Conversions int64 `json:"conversions"`
}

type LeadsAnalytics struct {
	Leads                 int64   `json:"leads"`
	Clicks                int64   `json:"clicks"`
	Impressions           int64   `json:"impressions"`
	Conversions           int64   `json:"conversions"`
	PotentialRevenue      float64 `json:"potentialRevenue"`
	ConnectedLeads        int64   `json:"connectedLeads"`
	UnconnectedLeads      int64   `json:"unconnectedLeads"`
	ConnectedLeadsRevenue float64 `json:"connectedLeadsRevenue"`
}

// DashboardData is refreshed wholesale on every dashboard render.
type DashboardData struct {
	CampaignAnalytics CampaignAnalytics `json:"campaignAnalytics"`
	LeadsAnalytics    LeadsAnalytics    `json:"leadsAnalytics"`
}
