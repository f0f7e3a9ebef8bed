package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// HTTPClient implements DataSource by calling the vitalsync REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// engine lives on another machine.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(nil))
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, status, err := c.do(ctx, http.MethodGet, path, params)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) TodaySummary(ctx context.Context) (*models.DailyHealthSummary, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/v1/summaries/today", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: today summary returned %d: %s", status, body)
	}
	var summary models.DailyHealthSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("httpclient: decode today summary: %w", err)
	}
	return &summary, nil
}

func (c *HTTPClient) WeekSummaries(ctx context.Context) ([]models.DailyHealthSummary, error) {
	var summaries []models.DailyHealthSummary
	if err := c.getJSON(ctx, "/api/v1/summaries/week", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *HTTPClient) SummaryHistory(ctx context.Context, from, to string) ([]models.DailyHealthSummary, error) {
	params := url.Values{}
	params.Set("start", from)
	params.Set("end", to)

	var summaries []models.DailyHealthSummary
	if err := c.getJSON(ctx, "/api/v1/summaries", params, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *HTTPClient) TrainingLoad(ctx context.Context, date time.Time) (models.TrainingLoad, error) {
	params := url.Values{}
	params.Set("date", models.DayKey(date))

	var load models.TrainingLoad
	if err := c.getJSON(ctx, "/api/v1/training-load", params, &load); err != nil {
		return models.TrainingLoad{}, err
	}
	return load, nil
}

func (c *HTTPClient) Streak(ctx context.Context) (models.StreakState, error) {
	var streak models.StreakState
	if err := c.getJSON(ctx, "/api/v1/streak", nil, &streak); err != nil {
		return models.StreakState{}, err
	}
	return streak, nil
}

func (c *HTTPClient) LiveSession(ctx context.Context) (models.LiveSessionState, bool, error) {
	var resp struct {
		IsTracking bool                    `json:"is_tracking"`
		Session    models.LiveSessionState `json:"session"`
	}
	if err := c.getJSON(ctx, "/api/v1/live", nil, &resp); err != nil {
		return models.LiveSessionState{}, false, err
	}
	return resp.Session, resp.IsTracking, nil
}

func (c *HTTPClient) TriggerSync(ctx context.Context) error {
	body, status, err := c.do(ctx, http.MethodPost, "/api/v1/sync", nil)
	if err != nil {
		return err
	}
	if status != http.StatusAccepted && status != http.StatusOK {
		return fmt.Errorf("httpclient: sync returned %d: %s", status, body)
	}
	return nil
}
