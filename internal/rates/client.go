package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sitio/internal/core"
)

// Client fetches EUR-based exchange rates from the external provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type ratesResponse struct {
	Rates core.RateTable `json:"rates"`
}

// FetchEUR retrieves the latest rates against the EUR base. Any transport,
// status or payload problem maps to ErrUpstreamUnavailable so callers treat
// the provider as a single fallible upstream.
func (c *Client) FetchEUR(ctx context.Context) (core.RateTable, error) {
	endpoint := fmt.Sprintf("%s/EUR?apikey=%s", c.baseURL, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w: %w", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: status %d: %w", resp.StatusCode, core.ErrUpstreamUnavailable)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w: %w", core.ErrUpstreamUnavailable, err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates payload empty: %w", core.ErrUpstreamUnavailable)
	}

	return payload.Rates, nil
}
