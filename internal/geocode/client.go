package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoResults is returned when the provider has no candidate for the query.
var ErrNoResults = errors.New("geocode: no results")

// ErrUpstream is returned for provider or transport failures. Callers must
// not retry within the request; the failure is surfaced to the client.
var ErrUpstream = errors.New("geocode: upstream failure")

// Location is the first candidate returned by the provider.
type Location struct {
	Longitude        float64
	Latitude         float64
	FormattedAddress string
}

// Client defines the contract for resolving free-text locations.
type Client interface {
	Geocode(ctx context.Context, query string) (Location, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed geocoding client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse geocoder url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Geocode resolves a free-text location to coordinates and a formatted
// address. The first candidate wins.
func (c *HTTPClient) Geocode(ctx context.Context, query string) (Location, error) {
	rel := &url.URL{Path: "/geocode"}
	q := rel.Query()
	q.Set("q", query)
	rel.RawQuery = q.Encode()
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload []candidate
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return Location{}, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
		}
		return firstCandidate(payload)
	case http.StatusNotFound:
		return Location{}, ErrNoResults
	default:
		c.logger.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("geocode: unexpected upstream status")
		return Location{}, fmt.Errorf("%w: upstream returned %d", ErrUpstream, resp.StatusCode)
	}
}

type candidate struct {
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	FormattedAddress *string  `json:"formattedAddress"`
}

func firstCandidate(payload []candidate) (Location, error) {
	if len(payload) == 0 {
		return Location{}, ErrNoResults
	}
	first := payload[0]
	if first.Latitude == nil || first.Longitude == nil {
		return Location{}, fmt.Errorf("%w: candidate missing coordinates", ErrUpstream)
	}

	loc := Location{
		Longitude: *first.Longitude,
		Latitude:  *first.Latitude,
	}
	if first.FormattedAddress != nil {
		loc.FormattedAddress = *first.FormattedAddress
	}
	return loc, nil
}
