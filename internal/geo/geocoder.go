package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/azhunt/house-hunter/internal/config"
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Cache stores geocoding results keyed by the full formatted address.
// A (nil, nil) Get result is a cache miss. Entries persist indefinitely.
type Cache interface {
	Get(address string) (*Point, error)
	Put(address string, p Point) error
}

// Geocoder resolves street addresses to coordinates via a Nominatim-style
// search endpoint. Lookups are read-through/write-through against the cache
// and paced by a shared rate limiter so batch enrichment respects the
// service's usage policy.
type Geocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cache      Cache
	limiter    *rate.Limiter
}

// NewGeocoder creates a geocoder with the given settings and cache.
func NewGeocoder(cfg config.Geocoder, cache Cache) *Geocoder {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Geocoder{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Geocode resolves an address to coordinates. It returns (nil, nil) when
// the service has no match. Cache errors are logged and treated as misses;
// the caller should treat any failure as "coordinates unknown" rather than
// aborting enrichment.
func (g *Geocoder) Geocode(ctx context.Context, address, city, state string) (*Point, error) {
	full := fmt.Sprintf("%s, %s, %s", address, city, state)

	if g.cache != nil {
		p, err := g.cache.Get(full)
		if err != nil {
			slog.Warn("geocode cache read failed", "address", full, "error", err)
		} else if p != nil {
			return p, nil
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	p, err := g.lookup(ctx, full)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	if g.cache != nil {
		if err := g.cache.Put(full, *p); err != nil {
			slog.Warn("geocode cache write failed", "address", full, "error", err)
		}
	}

	return p, nil
}

// nominatimResult is one entry in a Nominatim search response.
// Coordinates come back as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// lookup queries the geocoding service for a single address.
func (g *Geocoder) lookup(ctx context.Context, fullAddress string) (*Point, error) {
	params := url.Values{
		"q":      {fullAddress},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("closing geocode response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", results[0].Lon, err)
	}

	return &Point{Lat: lat, Lon: lon}, nil
}
