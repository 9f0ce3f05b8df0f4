// Package listing provides the listing domain model shared by every
// pipeline stage.
package listing

import (
	"strings"
	"time"
)

// Listing represents one real-estate property record under comparison.
// Raw fields are populated by the fetch stage; the enrichment stage fills
// the geo/safety fields; the scorer fills ValueScore last. Optional fields
// are pointers so "unknown" is distinguishable from zero.
type Listing struct {
	// Core identification
	ID     string `json:"id"`
	Source string `json:"source"`
	URL    string `json:"url"`

	// Location
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Price
	Price int64 `json:"price"`

	// Property details
	Beds         int      `json:"beds"`
	Baths        float64  `json:"baths"`
	Sqft         int64    `json:"sqft"`
	LotSqft      *int64   `json:"lot_sqft,omitempty"`
	YearBuilt    *int     `json:"year_built,omitempty"`
	PropertyType string   `json:"property_type"`
	Stories      *int     `json:"stories,omitempty"`

	// Recurring costs
	HOAMonthly *int64 `json:"hoa_monthly,omitempty"`
	AnnualTax  *int64 `json:"annual_tax,omitempty"`

	// Market timing
	DaysOnMarket *int   `json:"days_on_market,omitempty"`
	ListDate     string `json:"list_date,omitempty"`

	// Feature flags
	HasPool      bool `json:"has_pool"`
	HasYard      bool `json:"has_yard"`
	HasSolar     bool `json:"has_solar"`
	HasGarage    bool `json:"has_garage"`
	HasBasement  bool `json:"has_basement"`
	GarageSpaces int  `json:"garage_spaces"`

	// Enrichment outputs
	SafetyIndex        *int     `json:"safety_index,omitempty"`
	NearestDowntown    string   `json:"nearest_downtown,omitempty"`
	DistanceToDowntown *float64 `json:"distance_to_downtown,omitempty"`

	// Computed score, relative to the batch it was scored with
	ValueScore *float64 `json:"value_score,omitempty"`

	// Metadata
	LastUpdated time.Time `json:"last_updated"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Filters holds the hard-filter thresholds a listing must pass before it
// enters the enrichment/scoring pipeline.
type Filters struct {
	MinBeds      int
	MinBaths     float64
	MinSqft      int64
	MaxPrice     int64
	MinYearBuilt int
}

// excludedTypes are property types that never pass the hard filters.
var excludedTypes = map[string]bool{
	"condo":        true,
	"condominium":  true,
	"apartment":    true,
	"other":        true,
	"manufactured": true,
}

// fractionalKeywords flag co-ownership and timeshare listings, which are
// priced per share and would distort the sqft-per-dollar population.
var fractionalKeywords = []string{
	"co-ownership", "coownership", "co ownership",
	"fractional", "timeshare", "time share",
	"1/8 ownership", "1/4 ownership", "1/2 ownership",
	"shared ownership", "partial ownership",
	".125 ownership", ".25 ownership", ".5 ownership",
}

// PassesHardFilters reports whether the listing meets the minimum
// requirements to be worth enriching and scoring.
func (l Listing) PassesHardFilters(f Filters) bool {
	if l.Beds < f.MinBeds {
		return false
	}
	if l.Baths < f.MinBaths {
		return false
	}
	if l.Sqft < f.MinSqft {
		return false
	}
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	if l.YearBuilt != nil && f.MinYearBuilt > 0 && *l.YearBuilt < f.MinYearBuilt {
		return false
	}
	if excludedTypes[strings.ToLower(l.PropertyType)] {
		return false
	}
	if l.Description != "" {
		desc := strings.ToLower(l.Description)
		for _, kw := range fractionalKeywords {
			if strings.Contains(desc, kw) {
				return false
			}
		}
	}
	return true
}
