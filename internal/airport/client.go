// Package airport provides a client for the airport reference-data API.
package airport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/skyrota/skyrota/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the airport reference-data API.
	DefaultBaseURL = "https://airports.skyrota.io/v1"

	// ProviderName identifies this provider.
	ProviderName = "airport-directory"
)

// ErrAirportNotFound is returned when the directory has no such airport.
var ErrAirportNotFound = errors.New("airport not found")

// ClientConfig holds configuration for the airport client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Metrics records upstream request timing and cache effectiveness
	// (optional). *middleware.ProviderMetrics satisfies it.
	Metrics Metrics
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Metrics receives provider call and cache instrumentation.
type Metrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// Client is an airport reference-data client. Airport records change rarely,
// so successful lookups are cached for the lifetime of the process.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	metrics    Metrics

	mu    sync.RWMutex
	cache map[string]Airport
}

// NewClient creates a new airport client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		clientCfg := resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        cfg.Registry,
		}
		if cfg.Metrics != nil {
			clientCfg.Recorder = cfg.Metrics
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		cache:      make(map[string]Airport),
	}
}

// Airport is the reference data held for one airport.
type Airport struct {
	IATA             string `json:"iata"`
	Name             string `json:"name"`
	City             string `json:"city"`
	Country          string `json:"country"`
	TimeZone         string `json:"timeZone"`
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
}

// GetAirport fetches reference data for one airport by IATA code. Results
// are served from the process-local cache after the first successful lookup.
func (c *Client) GetAirport(ctx context.Context, iata string) (*Airport, error) {
	code := strings.ToUpper(iata)

	c.mu.RLock()
	cached, ok := c.cache[code]
	c.mu.RUnlock()
	if ok {
		if c.metrics != nil {
			c.metrics.RecordCacheHit(ProviderName, "get-airport")
		}
		return &cached, nil
	}
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(ProviderName, "get-airport")
	}

	url := fmt.Sprintf("%s/airports/%s", c.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching airport %s: %w", iata, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrAirportNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airport API returned status %d", resp.StatusCode)
	}

	var airport Airport
	if err := json.NewDecoder(resp.Body).Decode(&airport); err != nil {
		return nil, fmt.Errorf("decoding airport response: %w", err)
	}

	c.mu.Lock()
	c.cache[code] = airport
	c.mu.Unlock()

	return &airport, nil
}

// UTCOffset returns the current UTC offset in minutes for an airport.
func (c *Client) UTCOffset(ctx context.Context, iata string) (int, error) {
	airport, err := c.GetAirport(ctx, iata)
	if err != nil {
		return 0, err
	}
	return airport.UTCOffsetMinutes, nil
}
