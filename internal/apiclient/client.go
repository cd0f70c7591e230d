// internal/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/metrics"
	"github.com/unclebandit/campaign-dashboard/internal/model"
)

// DefaultBaseURL is where the campaign backend listens in development.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// Client talks to the campaign backend REST API. It does not retry, cache or
// authenticate; the only safety net is the http.Client timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) Dashboard(ctx context.Context) (model.DashboardData, error) {
	var out model.DashboardData
	err := c.get(ctx, "dashboard", "/dashboard", dashboardSchema, &out)
	return out, err
}

func (c *Client) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var out []model.Campaign
	err := c.get(ctx, "campaign_list", "/campaign", campaignListSchema, &out)
	return out, err
}

func (c *Client) GetCampaign(ctx context.Context, id string) (model.Campaign, error) {
	var out model.Campaign
	err := c.get(ctx, "campaign_detail", "/campaign/"+url.PathEscape(id), campaignSchema, &out)
	return out, err
}

func (c *Client) CampaignLeads(ctx context.Context, id string) ([]model.Lead, error) {
	var out struct {
		Leads []model.Lead `json:"leads"`
	}
	if err := c.get(ctx, "campaign_leads", "/campaign/"+url.PathEscape(id)+"/leads", leadsSchema, &out); err != nil {
		return nil, err
	}
	return out.Leads, nil
}

func (c *Client) AdditionalInputs(ctx context.Context) (model.AdditionalInputs, error) {
	var out model.AdditionalInputsResponse
	if err := c.get(ctx, "additional_inputs", "/additional-inputs", additionalInputsSchema, &out); err != nil {
		return nil, err
	}
	return out.AdditionalInput, nil
}

// CreateCampaign posts the draft as-is. The response body is not consumed.
func (c *Client) CreateCampaign(ctx context.Context, draft model.DraftCampaign) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode campaign: %w", err)
	}
	_, err = c.do(ctx, "campaign_create", http.MethodPost, "/campaign", body)
	return err
}

func (c *Client) get(ctx context.Context, endpoint, path string, schema payloadSchema, out any) error {
	body, err := c.do(ctx, endpoint, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := schema.check(body); err != nil {
		c.observe(endpoint, "invalid")
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.observe(endpoint, "invalid")
		return fmt.Errorf("GET %s: failed to decode response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe(endpoint, "error")
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, "error")
		return nil, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(endpoint, "status")
		c.logger.Warn("backend returned non-2xx",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	c.observe(endpoint, "ok")
	c.logger.Debug("backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}

func (c *Client) observe(endpoint, outcome string) {
	metrics.BackendRequests.WithLabelValues(endpoint, outcome).Inc()
}
