// internal/service/campaign_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/request"
)

// CampaignAPI is the read side of the backend used by the views.
type CampaignAPI interface {
	Dashboard(ctx context.Context) (model.DashboardData, error)
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	GetCampaign(ctx context.Context, id string) (model.Campaign, error)
	CampaignLeads(ctx context.Context, id string) ([]model.Lead, error)
}

// CampaignService builds one request per view render. Requests are never
// shared between renders.
type CampaignService struct {
	API    CampaignAPI
	Logger *zap.Logger
}

func NewCampaignService(api CampaignAPI, logger *zap.Logger) *CampaignService {
	return &CampaignService{API: api, Logger: logger}
}

func (s *CampaignService) Dashboard() *request.Request[model.DashboardData] {
	return request.New(s.API.Dashboard, s.failure("dashboard", appErrors.MsgDashboardFailed))
}

func (s *CampaignService) Campaigns() *request.Request[[]model.Campaign] {
	return request.New(s.API.ListCampaigns, s.failure("campaigns", appErrors.MsgCampaignsFailed))
}

func (s *CampaignService) Campaign(id string) *request.Request[model.Campaign] {
	return request.New(func(ctx context.Context) (model.Campaign, error) {
		return s.API.GetCampaign(ctx, id)
	}, s.failure("campaign", appErrors.MsgCampaignFailed, zap.String("campaign_id", id)))
}

func (s *CampaignService) Leads(id string) *request.Request[[]model.Lead] {
	return request.New(func(ctx context.Context) ([]model.Lead, error) {
		return s.API.CampaignLeads(ctx, id)
	}, s.failure("leads", appErrors.MsgLeadsFailed, zap.String("campaign_id", id)))
}

// failure logs the cause once and hands the view a static message.
func (s *CampaignService) failure(view, msg string, fields ...zap.Field) func(error) error {
	return func(err error) error {
		s.Logger.Error("fetch failed", append(fields, zap.String("view", view), zap.Error(err))...)
		return appErrors.NewFetchFailed(msg, err)
	}
}
