package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vitos/faucet_gateway/internal/domain"
)

const (
	PublicBaseURL = "https://api.coingecko.com/api/v3"
	ProBaseURL    = "https://pro-api.coingecko.com/api/v3"

	apiKeyHeader = "x-cg-pro-api-key"
)

// Client fetches spot prices from the CoinGecko simple price endpoint.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient picks the pro API when apiKey is set. A non-empty baseURL overrides either host.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = PublicBaseURL
		if apiKey != "" {
			baseURL = ProBaseURL
		}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type simplePrice struct {
	USD *float64 `json:"usd"`
}

// FetchUSDPrices implements domain.PriceSource. Coins the API returns without a usd quote are skipped.
func (c *Client) FetchUSDPrices(ctx context.Context, coingeckoIDs []string) (domain.PriceMapping, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(coingeckoIDs, ","))
	query.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("coingecko API error: status %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]simplePrice
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode coingecko response: %w", err)
	}

	prices := make(domain.PriceMapping, len(result))
	for id, p := range result {
		if p.USD == nil {
			continue
		}
		prices[id] = *p.USD
	}
	return prices, nil
}
