// Package distance resolves driving distance between two Brazilian postal
// codes through a Directions-style routing API.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// Config tunes the route client.
type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
	Burst     int
}

// RouteClient queries the routing API for driving distances. Safe for
// concurrent use.
type RouteClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// routeDistance is the nested distance object in a route leg.
type routeDistance struct {
	Meters int64 `json:"value"`
}

type routeLeg struct {
	Distance routeDistance `json:"distance"`
}

type route struct {
	Legs []routeLeg `json:"legs"`
}

type directionsResponse struct {
	Routes []route `json:"routes"`
	Status string  `json:"status"`
}

// NewRouteClient builds a route client. Zero config fields fall back to
// sensible defaults; APIKey is required at call time, not here.
func NewRouteClient(config Config, logger *slog.Logger) *RouteClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = rate.Every(100 * time.Millisecond)
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &RouteClient{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(config.RateLimit, config.Burst),
		logger:  logger,
	}
}

// DistanceKm returns the driving distance in kilometers between two postal
// codes. Any failure is an error; callers decide what "unknown" means.
func (c *RouteClient) DistanceKm(ctx context.Context, originCEP, destCEP string) (float64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("routing API key is not set")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter wait: %w", err)
	}

	query := url.Values{}
	query.Set("origin", originCEP)
	query.Set("destination", destCEP)
	query.Set("mode", "driving")
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create directions request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read directions response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("directions API returned status %d", resp.StatusCode)
	}

	var directions directionsResponse
	if err := json.Unmarshal(body, &directions); err != nil {
		return 0, fmt.Errorf("failed to decode directions response: %w", err)
	}

	if len(directions.Routes) == 0 || len(directions.Routes[0].Legs) == 0 {
		c.logger.Debug("no route between postal codes",
			"origin", originCEP, "destination", destCEP, "status", directions.Status)
		return 0, fmt.Errorf("no route found between %s and %s", originCEP, destCEP)
	}

	meters := directions.Routes[0].Legs[0].Distance.Meters
	return float64(meters) / 1000.0, nil
}
