package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/daybook-app/daybook/internal/core/services"
)

// ErrInsightsQuotaExhausted signals that today's budget of enrichment calls
// is spent; callers map it to HTTP 429 rather than treating it as a failure.
var ErrInsightsQuotaExhausted = errors.New("daily insights quota exhausted")

const QuotaResource = "insights_api"

// InsightsClient calls a paid summary/enrichment API. Every call claims one
// quota slot first; when the downstream call fails the slot is released so a
// transient error does not burn budget. A successful call keeps its slot.
type InsightsClient struct {
	baseURL string
	apiKey  string
	quota   *services.QuotaService
	client  *http.Client
}

func NewInsightsClient(baseURL, apiKey string, quota *services.QuotaService) *InsightsClient {
	return &InsightsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		quota:   quota,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type Insight struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

func (c *InsightsClient) WeeklySummary(ctx context.Context, userID string, stats any) (*Insight, error) {
	reservation, err := c.quota.Reserve(ctx, QuotaResource)
	if err != nil {
		return nil, err
	}
	if !reservation.Granted {
		return nil, ErrInsightsQuotaExhausted
	}

	insight, err := c.post(ctx, userID, stats)
	if err != nil {
		// The slot was claimed but no billable call happened; give it back.
		if relErr := c.quota.Release(ctx, QuotaResource); relErr != nil {
			return nil, fmt.Errorf("%w (release failed: %v)", err, relErr)
		}
		return nil, err
	}

	return insight, nil
}

func (c *InsightsClient) post(ctx context.Context, userID string, stats any) (*Insight, error) {
	body, err := json.Marshal(map[string]any{
		"user_id": userID,
		"stats":   stats,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/summaries", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insights api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("insights api returned status %d", resp.StatusCode)
	}

	var insight Insight
	if err := json.NewDecoder(resp.Body).Decode(&insight); err != nil {
		return nil, fmt.Errorf("insights api sent malformed response: %w", err)
	}

	return &insight, nil
}
