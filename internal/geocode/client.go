// Package geocode resolves stop addresses to coordinates via the Nominatim
// search API. Lookups are best-effort: any failure reports a miss so the
// render pipeline can fall back to known coordinates or skip the marker.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tripmapper/tripmapper/pkg/geom"
)

// DefaultBaseURL is the public Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

const userAgent = "tripmapper/1.0"

// Geocoder resolves a free-form query to a coordinate. ok is false when the
// query cannot be resolved for any reason.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (coord geom.LatLng, ok bool)
}

// ClientConfig configures the Nominatim client.
type ClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	Logger          zerolog.Logger
}

// Client is a Nominatim geocoder with retry and circuit-breaker protection.
// The breaker keeps a flaky upstream from stalling every render.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[geom.LatLng]
	maxRetries uint64
	interval   time.Duration
	log        zerolog.Logger
}

// NewClient creates a Nominatim geocoder.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}

	breaker := gobreaker.NewCircuitBreaker[geom.LatLng](gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		maxRetries: cfg.MaxRetries,
		interval:   cfg.InitialInterval,
		log:        cfg.Logger,
	}
}

var errNoResult = errors.New("no geocoding result")

// Geocode resolves a query. Transient failures retry with exponential
// backoff; an open breaker or an empty result reports a miss immediately.
func (c *Client) Geocode(ctx context.Context, query string) (geom.LatLng, bool) {
	if query == "" {
		return geom.LatLng{}, false
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.interval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)

	var coord geom.LatLng
	operation := func() error {
		result, err := c.breaker.Execute(func() (geom.LatLng, error) {
			return c.lookup(ctx, query)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			if errors.Is(err, errNoResult) {
				return backoff.Permanent(err)
			}
			return err
		}
		coord = result
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		c.log.Debug().Err(err).Str("query", query).Msg("geocoding miss")
		return geom.LatLng{}, false
	}
	return coord, true
}

func (c *Client) lookup(ctx context.Context, query string) (geom.LatLng, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geom.LatLng{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geom.LatLng{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geom.LatLng{}, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geom.LatLng{}, err
	}
	if len(results) == 0 {
		return geom.LatLng{}, errNoResult
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return geom.LatLng{}, errNoResult
	}

	coord := geom.LatLng{lat, lon}
	if !coord.Valid() {
		return geom.LatLng{}, errNoResult
	}
	return coord, nil
}

// Static is a table-backed Geocoder for tests and offline operation.
type Static map[string]geom.LatLng

// Geocode looks the query up verbatim.
func (s Static) Geocode(_ context.Context, query string) (geom.LatLng, bool) {
	coord, ok := s[query]
	return coord, ok
}
