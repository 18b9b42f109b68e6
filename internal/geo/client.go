// Package geo resolves a client IP to a coarse location via an HTTP oracle.
// It never owns the geo data itself: it is a thin HTTP GET against a
// configured endpoint, and every failure mode is soft — a failed or slow
// lookup returns an empty Location rather than aborting ingestion.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/trailbeacon/core/internal/logging"
)

// Location is the subset of the oracle's response this core stores:
// country and region name, nothing finer-grained.
type Location struct {
	Country string `json:"country"`
	Region  string `json:"region_name"`
}

// Client performs geo lookups against a configured oracle endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a Client with the given oracle endpoint and timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup resolves ip to a Location. Any failure — network error, non-2xx
// status, malformed body — is logged at Warn and answers with a zero
// Location; it never returns an error, since a missing location must
// never block ingestion.
func (c *Client) Lookup(ctx context.Context, ip string) Location {
	reqURL := fmt.Sprintf("%s/json?ip=%s", c.endpoint, url.QueryEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		logging.L().Warn("geo: failed to build request", zap.String("ip", ip), zap.Error(err))
		return Location{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.L().Warn("geo: oracle request failed", zap.String("ip", ip), zap.Error(err))
		return Location{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.L().Warn("geo: oracle returned non-2xx", zap.String("ip", ip), zap.Int("status", resp.StatusCode))
		return Location{}
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		logging.L().Warn("geo: failed to decode oracle response", zap.String("ip", ip), zap.Error(err))
		return Location{}
	}

	return loc
}
