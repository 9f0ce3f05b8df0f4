// Package config holds the injected configuration tables for the fetch,
// enrichment, and scoring stages. Tables are constructed by Default and
// optionally overridden from a YAML file; components receive them at
// construction instead of reading globals.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Region identifies a city in the listing source's API.
type Region struct {
	ID    int    `yaml:"id"`
	State string `yaml:"state"`
}

// Search configures the listing source and the hard filters applied to
// fetched records.
type Search struct {
	Regions      map[string]Region `yaml:"regions"`
	MaxPrice     int64             `yaml:"max_price"`
	MinBeds      int               `yaml:"min_beds"`
	MinBaths     float64           `yaml:"min_baths"`
	MinSqft      int64             `yaml:"min_sqft"`
	MinYearBuilt int               `yaml:"min_year_built"`
	// DelaySeconds is the pause between requests to the listing source.
	DelaySeconds float64 `yaml:"delay_seconds"`
}

// Weights assigns points to each scoring factor. The eight weights are
// expected to sum to 100; the scorer does not re-normalize an incorrect sum.
type Weights struct {
	Location     float64 `yaml:"location"`
	SqftValue    float64 `yaml:"sqft_value"`
	YearBuilt    float64 `yaml:"year_built"`
	LowHOA       float64 `yaml:"low_hoa"`
	PrivateYard  float64 `yaml:"private_yard"`
	DaysOnMarket float64 `yaml:"days_on_market"`
	Pool         float64 `yaml:"pool"`
	Solar        float64 `yaml:"solar"`
}

// Total returns the sum of all factor weights.
func (w Weights) Total() float64 {
	return w.Location + w.SqftValue + w.YearBuilt + w.LowHOA +
		w.PrivateYard + w.DaysOnMarket + w.Pool + w.Solar
}

// Scoring configures the value scorer.
type Scoring struct {
	Weights Weights `yaml:"weights"`
	// LocationPrefs maps city names to a preference weight in [0,1].
	LocationPrefs map[string]float64 `yaml:"location_prefs"`
	// DefaultLocationPref applies to cities absent from LocationPrefs.
	DefaultLocationPref float64 `yaml:"default_location_pref"`
}

// Safety maps city names to a safety index in [0,100]. Higher is safer.
type Safety struct {
	Index map[string]int `yaml:"index"`
	// Default applies to cities absent from Index.
	Default int `yaml:"default"`
}

// Reference is a named anchor coordinate used for nearest-point lookups.
// References are an ordered list: nearest-reference ties resolve to the
// first entry encountered.
type Reference struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// Geocoder configures the external geocoding collaborator.
type Geocoder struct {
	BaseURL        string  `yaml:"base_url"`
	UserAgent      string  `yaml:"user_agent"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	// RatePerSecond caps outbound geocoding requests across the batch.
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// Config is the full configuration for the pipeline.
type Config struct {
	Search     Search      `yaml:"search"`
	Scoring    Scoring     `yaml:"scoring"`
	Safety     Safety      `yaml:"safety"`
	References []Reference `yaml:"references"`
	Geocoder   Geocoder    `yaml:"geocoder"`
}

// Default returns the built-in Arizona configuration.
func Default() Config {
	return Config{
		Search: Search{
			Regions: map[string]Region{
				"Gilbert":      {ID: 6998, State: "AZ"},
				"Chandler":     {ID: 3104, State: "AZ"},
				"Scottsdale":   {ID: 16660, State: "AZ"},
				"Mesa":         {ID: 11736, State: "AZ"},
				"Tucson":       {ID: 19459, State: "AZ"},
				"Green Valley": {ID: 23055, State: "AZ"},
				"Oro Valley":   {ID: 13300, State: "AZ"},
				"Surprise":     {ID: 18267, State: "AZ"},
			},
			MaxPrice:     700000,
			MinBeds:      3,
			MinBaths:     2,
			MinSqft:      1200,
			MinYearBuilt: 1996,
			DelaySeconds: 2.5,
		},
		Scoring: Scoring{
			Weights: Weights{
				Location:     25,
				SqftValue:    23,
				YearBuilt:    20,
				LowHOA:       13,
				PrivateYard:  10,
				DaysOnMarket: 3,
				Pool:         3,
				Solar:        3,
			},
			LocationPrefs: map[string]float64{
				"Scottsdale":      1.00,
				"Gilbert":         0.97,
				"Surprise":        0.95,
				"Chandler":        0.93,
				"Green Valley":    0.90,
				"Oro Valley":      0.87,
				"Queen Creek":     0.85,
				"Mesa":            0.82,
				"Marana":          0.80,
				"Apache Junction": 0.77,
				"Vail":            0.75,
				"Tucson":          0.72,
			},
			DefaultLocationPref: 0.80,
		},
		Safety: Safety{
			Index: map[string]int{
				"Gilbert":         85,
				"Chandler":        78,
				"Scottsdale":      75,
				"Queen Creek":     82,
				"Mesa":            55,
				"Tucson":          45,
				"Green Valley":    80,
				"Oro Valley":      78,
				"Marana":          70,
				"Vail":            75,
				"Surprise":        80,
				"Apache Junction": 50,
			},
			Default: 50,
		},
		References: []Reference{
			{Name: "Phoenix", Lat: 33.4484, Lon: -112.0740},
			{Name: "Scottsdale", Lat: 33.4942, Lon: -111.9261},
			{Name: "Gilbert", Lat: 33.3528, Lon: -111.7890},
			{Name: "Chandler", Lat: 33.3062, Lon: -111.8413},
			{Name: "Mesa", Lat: 33.4152, Lon: -111.8315},
			{Name: "Tucson", Lat: 32.2226, Lon: -110.9747},
			{Name: "Green Valley", Lat: 31.8543, Lon: -110.9932},
			{Name: "Oro Valley", Lat: 32.3909, Lon: -110.9665},
			{Name: "Surprise", Lat: 33.6306, Lon: -112.3332},
		},
		Geocoder: Geocoder{
			BaseURL:        "https://nominatim.openstreetmap.org",
			UserAgent:      "house-hunter/1.0",
			TimeoutSeconds: 10,
			RatePerSecond:  1,
		},
	}
}

// Load returns the default configuration overlaid with values from the
// YAML file at path. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
