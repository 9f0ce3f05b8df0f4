package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/azhunt/house-hunter/internal/config"
)

func testSearch() config.Search {
	return config.Search{
		Regions: map[string]config.Region{
			"Gilbert": {ID: 6998, State: "AZ"},
		},
		MaxPrice:     700000,
		MinBeds:      3,
		MinBaths:     2,
		MinSqft:      1200,
		MinYearBuilt: 1996,
	}
}

func testFetcher(serverURL string, search config.Search) *Fetcher {
	f := New(search)
	f.apiURL = serverURL
	f.delay = 0
	return f
}

// stingrayPayload builds a response body in the stingray format, including
// the anti-hijacking prefix.
func stingrayPayload(t *testing.T, homes []map[string]any) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"resultCode": 0,
		"payload":    map[string]any{"homes": homes},
	})
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	return "{}&&" + string(body)
}

func passingHome(id string) map[string]any {
	return map[string]any{
		"listingId":  map[string]any{"value": id},
		"streetLine": map[string]any{"value": "123 E Elliot Rd"},
		"city":       "Gilbert",
		"state":      "AZ",
		"zip":        map[string]any{"value": "85234"},
		"price":      map[string]any{"value": 525000},
		"beds":       4,
		"baths":      2.5,
		"sqFt":       map[string]any{"value": 2100},
		"yearBuilt":  map[string]any{"value": 2015},
		"lotSize":    map[string]any{"value": 7500},
		"hoa":        map[string]any{"value": 85},
		"dom":        map[string]any{"value": 12},
		"url":        "/AZ/Gilbert/123-E-Elliot-Rd/home/1",
		"latLong": map[string]any{
			"latitude":  33.3528,
			"longitude": -111.789,
		},
		"uiPropertyType": 1,
		"listingRemarks": "Sparkling pool and a big backyard with owned solar.",
		"photos":         []string{"https://ssl.cdn-redfin.com/photo1.jpg"},
	}
}

func TestFetchCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("region_id"); got != "6998" {
			t.Errorf("region_id = %q, want %q", got, "6998")
		}
		if got := r.URL.Query().Get("region_type"); got != "6" {
			t.Errorf("region_type = %q, want %q", got, "6")
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		w.Write([]byte(stingrayPayload(t, []map[string]any{passingHome("111")})))
	}))
	defer server.Close()

	f := testFetcher(server.URL, testSearch())
	listings, err := f.FetchCity(context.Background(), "Gilbert")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}

	l := listings[0]
	if l.ID != "111" {
		t.Errorf("id = %q, want %q", l.ID, "111")
	}
	if l.Source != "redfin" {
		t.Errorf("source = %q, want %q", l.Source, "redfin")
	}
	if l.Address != "123 E Elliot Rd" || l.City != "Gilbert" || l.ZipCode != "85234" {
		t.Errorf("address fields = %q/%q/%q", l.Address, l.City, l.ZipCode)
	}
	if l.Price != 525000 || l.Beds != 4 || l.Baths != 2.5 || l.Sqft != 2100 {
		t.Errorf("core fields = %d/%d/%v/%d", l.Price, l.Beds, l.Baths, l.Sqft)
	}
	if l.YearBuilt == nil || *l.YearBuilt != 2015 {
		t.Errorf("year built = %v, want 2015", l.YearBuilt)
	}
	if l.LotSqft == nil || *l.LotSqft != 7500 {
		t.Errorf("lot sqft = %v, want 7500", l.LotSqft)
	}
	if l.HOAMonthly == nil || *l.HOAMonthly != 85 {
		t.Errorf("hoa = %v, want 85", l.HOAMonthly)
	}
	if l.DaysOnMarket == nil || *l.DaysOnMarket != 12 {
		t.Errorf("days on market = %v, want 12", l.DaysOnMarket)
	}
	if l.Latitude == nil || *l.Latitude != 33.3528 {
		t.Errorf("latitude = %v, want 33.3528", l.Latitude)
	}
	if l.PropertyType != "single_family" {
		t.Errorf("property type = %q, want %q", l.PropertyType, "single_family")
	}
	if l.URL != "https://www.redfin.com/AZ/Gilbert/123-E-Elliot-Rd/home/1" {
		t.Errorf("url = %q, want base-prefixed path", l.URL)
	}
	if !l.HasPool || !l.HasSolar || !l.HasYard {
		t.Errorf("amenities = pool=%v solar=%v yard=%v, want all true", l.HasPool, l.HasSolar, l.HasYard)
	}
	if l.PhotoURL != "https://ssl.cdn-redfin.com/photo1.jpg" {
		t.Errorf("photo = %q", l.PhotoURL)
	}
}

func TestFetchCityAppliesHardFilters(t *testing.T) {
	tooExpensive := passingHome("201")
	tooExpensive["price"] = map[string]any{"value": 800000}

	tooSmall := passingHome("202")
	tooSmall["sqFt"] = map[string]any{"value": 900}

	tooFewBeds := passingHome("203")
	tooFewBeds["beds"] = 2

	tooOld := passingHome("204")
	tooOld["yearBuilt"] = map[string]any{"value": 1985}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stingrayPayload(t, []map[string]any{
			passingHome("200"), tooExpensive, tooSmall, tooFewBeds, tooOld,
		})))
	}))
	defer server.Close()

	f := testFetcher(server.URL, testSearch())
	listings, err := f.FetchCity(context.Background(), "Gilbert")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1 (filters should drop the rest)", len(listings))
	}
	if listings[0].ID != "200" {
		t.Errorf("surviving listing = %q, want %q", listings[0].ID, "200")
	}
}

func TestFetchCitySkipsHomesWithoutID(t *testing.T) {
	noID := passingHome("x")
	delete(noID, "listingId")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stingrayPayload(t, []map[string]any{noID})))
	}))
	defer server.Close()

	f := testFetcher(server.URL, testSearch())
	listings, err := f.FetchCity(context.Background(), "Gilbert")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("got %d listings, want 0", len(listings))
	}
}

func TestFetchCityIDFallback(t *testing.T) {
	propertyOnly := passingHome("x")
	delete(propertyOnly, "listingId")
	propertyOnly["propertyId"] = map[string]any{"value": 987654}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stingrayPayload(t, []map[string]any{propertyOnly})))
	}))
	defer server.Close()

	f := testFetcher(server.URL, testSearch())
	listings, err := f.FetchCity(context.Background(), "Gilbert")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if listings[0].ID != "987654" {
		t.Errorf("id = %q, want %q (property id fallback)", listings[0].ID, "987654")
	}
}

func TestFetchCityAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}&&{"resultCode": 1, "errorMessage": "rate limited"}`))
	}))
	defer server.Close()

	f := testFetcher(server.URL, testSearch())
	if _, err := f.FetchCity(context.Background(), "Gilbert"); err == nil {
		t.Fatal("expected error for non-zero result code")
	}
}

func TestFetchCityBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	f := testFetcher(server.URL, testSearch())
	if _, err := f.FetchCity(context.Background(), "Gilbert"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestFetchCityUnknownRegion(t *testing.T) {
	f := testFetcher("http://unused", testSearch())
	if _, err := f.FetchCity(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected error for unconfigured city")
	}
}

func TestFetchAllDeduplicates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stingrayPayload(t, []map[string]any{
			passingHome("dup"), passingHome("unique"),
		})))
	}))
	defer server.Close()

	search := testSearch()
	search.Regions["Mesa"] = config.Region{ID: 11736, State: "AZ"}
	f := testFetcher(server.URL, search)

	listings, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	// Both cities return the same two homes; duplicates collapse by ID.
	if len(listings) != 2 {
		t.Errorf("got %d listings, want 2", len(listings))
	}
}

func TestFetchAllSkipsFailedCity(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(stingrayPayload(t, []map[string]any{passingHome("300")})))
	}))
	defer server.Close()

	search := testSearch()
	search.Regions["Mesa"] = config.Region{ID: 11736, State: "AZ"}
	f := testFetcher(server.URL, search)

	listings, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("got %d listings, want 1 from the surviving city", len(listings))
	}
}

func TestFetchAllCanceledContext(t *testing.T) {
	f := testFetcher("http://unused", testSearch())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.FetchAll(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestWrappedValue(t *testing.T) {
	tests := []struct {
		name string
		json string
		want any
		ok   bool
	}{
		{"bare int", `123`, int64(123), true},
		{"wrapped int", `{"value": 123, "level": 1}`, int64(123), true},
		{"bare float truncates", `2.9`, int64(2), true},
		{"numeric string", `"456"`, int64(456), true},
		{"null", `null`, int64(0), false},
		{"wrapped null", `{"value": null}`, int64(0), false},
		{"non-numeric string", `"abc"`, int64(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w wrappedValue
			if err := json.Unmarshal([]byte(tt.json), &w); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, ok := w.asInt64()
			if ok != tt.ok || got != tt.want {
				t.Errorf("asInt64(%s) = %v, %v; want %v, %v", tt.json, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWrappedValueAsString(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
		ok   bool
	}{
		{"bare string", `"85234"`, "85234", true},
		{"wrapped string", `{"value": "85234"}`, "85234", true},
		{"bare number formats", `6998`, "6998", true},
		{"empty string is absent", `""`, "", false},
		{"null", `null`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w wrappedValue
			if err := json.Unmarshal([]byte(tt.json), &w); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, ok := w.asString()
			if ok != tt.ok || got != tt.want {
				t.Errorf("asString(%s) = %q, %v; want %q, %v", tt.json, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTimeOnRedfinFallback(t *testing.T) {
	home := passingHome("400")
	delete(home, "dom")
	// 5 days in milliseconds.
	home["timeOnRedfin"] = map[string]any{"value": 5 * 24 * 60 * 60 * 1000}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stingrayPayload(t, []map[string]any{home})))
	}))
	defer server.Close()

	f := testFetcher(server.URL, testSearch())
	listings, err := f.FetchCity(context.Background(), "Gilbert")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if listings[0].DaysOnMarket == nil || *listings[0].DaysOnMarket != 5 {
		t.Errorf("days on market = %v, want 5", listings[0].DaysOnMarket)
	}
}
