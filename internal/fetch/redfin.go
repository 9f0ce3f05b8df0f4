// Package fetch retrieves raw listings from the Redfin stingray API.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/azhunt/house-hunter/internal/config"
	"github.com/azhunt/house-hunter/internal/listing"
)

const (
	defaultAPIURL = "https://www.redfin.com/stingray/api/gis"
	baseURL       = "https://www.redfin.com"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// propertyTypes maps Redfin uiPropertyType codes to readable names.
var propertyTypes = map[int]string{
	1: "single_family",
	2: "townhouse",
	3: "condo",
	4: "multi_family",
	5: "land",
	6: "manufactured",
	7: "other",
	8: "apartment",
}

// Fetcher fetches listings for configured regions. Listings failing the
// hard filters are dropped before they reach enrichment or scoring.
type Fetcher struct {
	httpClient *http.Client
	search     config.Search
	delay      time.Duration

	// Overridable URL for testing.
	apiURL string
}

// New creates a fetcher for the given search configuration.
func New(search config.Search) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		search:     search,
		delay:      time.Duration(search.DelaySeconds * float64(time.Second)),
		apiURL:     defaultAPIURL,
	}
}

// FetchAll fetches listings for every configured city, deduplicated by
// listing ID. Per-city failures are logged and skipped; the only hard
// error is context cancellation.
func (f *Fetcher) FetchAll(ctx context.Context) ([]listing.Listing, error) {
	var all []listing.Listing
	seen := make(map[string]bool)

	first := true
	for _, city := range sortedCities(f.search.Regions) {
		if !first {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return all, ctx.Err()
			}
		}
		first = false

		listings, err := f.FetchCity(ctx, city)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			slog.Error("failed to fetch city", "city", city, "error", err)
			continue
		}

		for _, l := range listings {
			if !seen[l.ID] {
				seen[l.ID] = true
				all = append(all, l)
			}
		}
	}

	slog.Info("fetch complete", "total", len(all))
	return all, nil
}

// FetchCity fetches all listings for a single configured city.
func (f *Fetcher) FetchCity(ctx context.Context, city string) ([]listing.Listing, error) {
	region, ok := f.search.Regions[city]
	if !ok {
		return nil, fmt.Errorf("no region configured for city %s", city)
	}

	slog.Info("fetching listings", "city", city, "region_id", region.ID)

	params := url.Values{
		"al":                   {"1"},
		"include_nearby_homes": {"true"},
		"num_homes":            {"350"},
		"ord":                  {"redfin-recommended-asc"},
		"page_number":          {"1"},
		"region_id":            {fmt.Sprintf("%d", region.ID)},
		"region_type":          {"6"}, // city
		"sf":                   {"1,2,3,5,6,7"},
		"status":               {"9"}, // for sale
		"uipt":                 {"1,2"}, // house, townhouse
		"v":                    {"8"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", f.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", baseURL+"/")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("closing response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	homes, err := parseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing response for %s: %w", city, err)
	}

	slog.Info("api returned homes", "city", city, "count", len(homes))

	filters := listing.Filters{
		MinBeds:      f.search.MinBeds,
		MinBaths:     f.search.MinBaths,
		MinSqft:      f.search.MinSqft,
		MaxPrice:     f.search.MaxPrice,
		MinYearBuilt: f.search.MinYearBuilt,
	}

	var listings []listing.Listing
	for _, home := range homes {
		l, ok := parseHome(home, city)
		if ok && l.PassesHardFilters(filters) {
			listings = append(listings, l)
		}
	}

	slog.Info("valid listings after filters", "city", city, "count", len(listings))
	return listings, nil
}

// gisResponse is the envelope of a stingray GIS response.
type gisResponse struct {
	ResultCode   int    `json:"resultCode"`
	ErrorMessage string `json:"errorMessage"`
	Payload      struct {
		Homes []redfinHome `json:"homes"`
	} `json:"payload"`
}

// parseResponse strips Redfin's "{}&&" anti-hijacking prefix and decodes
// the home list.
func parseResponse(raw []byte) ([]redfinHome, error) {
	text := strings.TrimPrefix(string(raw), "{}&&")

	var resp gisResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if resp.ResultCode != 0 {
		return nil, fmt.Errorf("api error: %s", resp.ErrorMessage)
	}

	return resp.Payload.Homes, nil
}

// redfinHome is one home entry. Many scalar fields arrive either bare or
// wrapped as {"value": x, "level": y}.
type redfinHome struct {
	ListingID      wrappedValue    `json:"listingId"`
	PropertyID     wrappedValue    `json:"propertyId"`
	MLSID          wrappedValue    `json:"mlsId"`
	StreetLine     wrappedValue    `json:"streetLine"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Zip            wrappedValue    `json:"zip"`
	PostalCode     wrappedValue    `json:"postalCode"`
	Price          wrappedValue    `json:"price"`
	Beds           wrappedValue    `json:"beds"`
	Baths          wrappedValue    `json:"baths"`
	SqFt           wrappedValue    `json:"sqFt"`
	YearBuilt      wrappedValue    `json:"yearBuilt"`
	LotSize        wrappedValue    `json:"lotSize"`
	HOA            wrappedValue    `json:"hoa"`
	DOM            wrappedValue    `json:"dom"`
	TimeOnRedfin   wrappedValue    `json:"timeOnRedfin"`
	UIPropertyType int             `json:"uiPropertyType"`
	Stories        wrappedValue    `json:"stories"`
	URL            string          `json:"url"`
	LatLong        latLong         `json:"latLong"`
	ListingRemarks string          `json:"listingRemarks"`
	KeyFacts       json.RawMessage `json:"keyFacts"`
	SkPoolType     wrappedValue    `json:"skPoolType"`
	Photos         json.RawMessage `json:"photos"`
}

type latLong struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// parseHome converts one API home into a listing. Returns false when the
// entry has no usable identity.
func parseHome(home redfinHome, city string) (listing.Listing, bool) {
	id, _ := home.ListingID.asString()
	if id == "" {
		id, _ = home.PropertyID.asString()
	}
	if id == "" {
		id, _ = home.MLSID.asString()
	}
	if id == "" {
		return listing.Listing{}, false
	}

	l := listing.Listing{
		ID:          id,
		Source:      "redfin",
		City:        home.City,
		State:       home.State,
		LastUpdated: time.Now(),
		Description: home.ListingRemarks,
	}
	if l.City == "" {
		l.City = city
	}
	if l.State == "" {
		l.State = "AZ"
	}

	l.Address, _ = home.StreetLine.asString()

	if zip, ok := home.Zip.asString(); ok {
		l.ZipCode = zip
	} else if zip, ok := home.PostalCode.asString(); ok {
		l.ZipCode = zip
	}

	if price, ok := home.Price.asInt64(); ok {
		l.Price = price
	}
	if beds, ok := home.Beds.asInt64(); ok {
		l.Beds = int(beds)
	}
	if baths, ok := home.Baths.asFloat64(); ok {
		l.Baths = baths
	}
	if sqft, ok := home.SqFt.asInt64(); ok {
		l.Sqft = sqft
	}
	if year, ok := home.YearBuilt.asInt64(); ok && year > 0 {
		y := int(year)
		l.YearBuilt = &y
	}
	if lot, ok := home.LotSize.asInt64(); ok && lot > 0 {
		l.LotSqft = &lot
	}
	if hoa, ok := home.HOA.asInt64(); ok {
		l.HOAMonthly = &hoa
	}
	if dom, ok := home.DOM.asInt64(); ok {
		d := int(dom)
		l.DaysOnMarket = &d
	} else if dom, ok := home.TimeOnRedfin.asInt64(); ok {
		// timeOnRedfin is milliseconds
		d := int(time.Duration(dom) * time.Millisecond / (24 * time.Hour))
		l.DaysOnMarket = &d
	}
	if stories, ok := home.Stories.asInt64(); ok && stories > 0 {
		s := int(stories)
		l.Stories = &s
	}

	if t, ok := propertyTypes[home.UIPropertyType]; ok {
		l.PropertyType = t
	} else {
		l.PropertyType = "unknown"
	}

	if home.URL != "" {
		if strings.HasPrefix(home.URL, "http") {
			l.URL = home.URL
		} else {
			l.URL = baseURL + home.URL
		}
	}

	l.Latitude = home.LatLong.Latitude
	l.Longitude = home.LatLong.Longitude

	remarks := strings.ToLower(home.ListingRemarks)
	facts := strings.ToLower(string(home.KeyFacts))

	if _, hasPoolType := home.SkPoolType.asString(); hasPoolType {
		l.HasPool = true
	} else if poolCode, ok := home.SkPoolType.asInt64(); ok && poolCode > 0 {
		l.HasPool = true
	} else {
		l.HasPool = strings.Contains(remarks, "pool") || strings.Contains(facts, "pool")
	}
	l.HasSolar = strings.Contains(remarks, "solar") || strings.Contains(facts, "solar")
	l.HasGarage = strings.Contains(remarks, "garage") || strings.Contains(facts, "garage")
	l.HasYard = (l.LotSqft != nil && *l.LotSqft > 3000) || strings.Contains(remarks, "yard")

	var photos []string
	if len(home.Photos) > 0 && json.Unmarshal(home.Photos, &photos) == nil && len(photos) > 0 {
		l.PhotoURL = photos[0]
	}

	return l, true
}

// sortedCities returns region keys in a stable order so fetch runs are
// repeatable.
func sortedCities(regions map[string]config.Region) []string {
	cities := make([]string, 0, len(regions))
	for city := range regions {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
