package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// timestampLayout is the instant format the analytics API expects.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// TernaryConfig configures the Ternary analytics client.
type TernaryConfig struct {
	// BaseURL is the analytics API endpoint, e.g. "https://api.ternary.app".
	BaseURL string

	// TenantID identifies the billing tenant.
	TenantID string

	// ProjectID is the cloud project whose spend is tracked.
	ProjectID string

	// APIKey authorizes analytics queries.
	APIKey string

	// Timeout bounds each request. Default: 10 seconds.
	Timeout time.Duration

	// Now supplies the current time; defaults to time.Now. Overridden
	// in tests.
	Now func() time.Time
}

// TernaryClient fetches spend figures from the Ternary analytics API.
// It implements SpendSource.
type TernaryClient struct {
	config TernaryConfig
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewTernaryClient creates an analytics client. The API key, tenant ID,
// and project ID are required.
func NewTernaryClient(cfg TernaryConfig, logger *slog.Logger) (*TernaryClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("billing API key is required")
	}
	if cfg.TenantID == "" {
		return nil, fmt.Errorf("billing tenant ID is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("billing project ID is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.ternary.app"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &TernaryClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "billing"),
		now:    now,
	}, nil
}

// CurrentPeriodSpend returns the spend from the start of the current
// calendar month until now.
func (c *TernaryClient) CurrentPeriodSpend(ctx context.Context) (float64, error) {
	now := c.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	return c.query(ctx, startOfMonth, now)
}

// RecentSpendRate returns the average credits/day over the last
// lookbackDays full days, ending at the most recent midnight.
func (c *TernaryClient) RecentSpendRate(ctx context.Context, lookbackDays int) (float64, error) {
	if lookbackDays <= 0 {
		return 0, fmt.Errorf("lookback days must be positive, got %d", lookbackDays)
	}

	now := c.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -lookbackDays)

	total, err := c.query(ctx, start, end)
	if err != nil {
		return 0, err
	}

	rate := total / float64(lookbackDays)
	c.logger.Debug("recent spend rate",
		"lookback_days", lookbackDays,
		"credits", total,
		"daily_rate", rate,
	)

	return rate, nil
}

// analyticsQuery is the request body for the analytics load endpoint.
type analyticsQuery struct {
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time"`
	DataSource    string         `json:"data_source"`
	Dimensions    []string       `json:"dimensions"`
	Measures      []string       `json:"measures"`
	PreAggFilters []preAggFilter `json:"pre_agg_filters"`
}

type preAggFilter struct {
	Operator        string   `json:"operator"`
	SchemaFieldName string   `json:"schema_field_name"`
	Values          []string `json:"values"`
}

type analyticsResponse struct {
	Response []struct {
		Credits *float64 `json:"credits"`
	} `json:"response"`
}

// query fetches the credit spend for a time range. The API reports
// credit consumption as a negative amount; the absolute value is
// returned.
func (c *TernaryClient) query(ctx context.Context, start, end time.Time) (float64, error) {
	payload := analyticsQuery{
		StartTime:  start.Format(timestampLayout),
		EndTime:    end.Format(timestampLayout),
		DataSource: "Billing",
		Dimensions: []string{"projectId", "projectName"},
		Measures:   []string{"credits"},
		PreAggFilters: []preAggFilter{{
			Operator:        "equals",
			SchemaFieldName: "projectId",
			Values:          []string{c.config.ProjectID},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode analytics query: %w", err)
	}

	url := fmt.Sprintf("%s/analytics/query/load?tenant_id=%s", c.config.BaseURL, c.config.TenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create analytics request: %w", err)
	}
	req.Header.Set("Authorization", c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("analytics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("analytics request returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed analyticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode analytics response: %w", err)
	}

	// No rows means no spend recorded for the range.
	if len(parsed.Response) == 0 {
		return 0, nil
	}
	if parsed.Response[0].Credits == nil {
		return 0, fmt.Errorf("analytics response does not contain credits data")
	}

	return math.Abs(*parsed.Response[0].Credits), nil
}
