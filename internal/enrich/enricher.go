// Package enrich augments listings with safety, geographic, and inferred
// attributes before scoring.
package enrich

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/azhunt/house-hunter/internal/config"
	"github.com/azhunt/house-hunter/internal/geo"
	"github.com/azhunt/house-hunter/internal/listing"
)

// yardLotSqftThreshold is the lot size above which a yard is inferred.
const yardLotSqftThreshold = 3000

// Geocoder resolves an address to coordinates. A (nil, nil) result means
// the address could not be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address, city, state string) (*geo.Point, error)
}

// Enricher fills geo and safety fields on listings. Enrichment is
// idempotent: re-running on an already-enriched listing refreshes the same
// fields without corrupting them.
type Enricher struct {
	geocoder Geocoder
	refs     []config.Reference
	safety   config.Safety
}

// New creates an enricher from the injected configuration tables.
func New(geocoder Geocoder, cfg config.Config) *Enricher {
	return &Enricher{
		geocoder: geocoder,
		refs:     cfg.References,
		safety:   cfg.Safety,
	}
}

// SafetyIndex returns the safety score in [0,100] for a city. The name is
// trimmed and title-cased before lookup, and any "Green Valley ..." variant
// folds to the canonical "Green Valley" key. Unknown cities get the table's
// default.
func SafetyIndex(table config.Safety, city string) int {
	name := titleCase(strings.TrimSpace(city))

	if strings.Contains(name, "Green Valley") {
		name = "Green Valley"
	}

	if idx, ok := table.Index[name]; ok {
		return idx
	}
	return table.Default
}

// Enrich returns a copy of the listing with enrichment fields filled in:
//  1. The safety index is always recomputed from the city.
//  2. Missing coordinates are geocoded; a geocoding failure leaves them
//     unset and is not an error.
//  3. When coordinates are present, the nearest reference point and its
//     distance are computed.
//  4. A yard is inferred from lot size; an existing true flag is never
//     unset.
func (e *Enricher) Enrich(ctx context.Context, l listing.Listing) (listing.Listing, error) {
	idx := SafetyIndex(e.safety, l.City)
	l.SafetyIndex = &idx

	if l.Latitude == nil || l.Longitude == nil {
		p, err := e.geocoder.Geocode(ctx, l.Address, l.City, l.State)
		switch {
		case ctx.Err() != nil:
			return l, ctx.Err()
		case err != nil:
			slog.Warn("geocoding failed", "listing", l.ID, "address", l.Address, "error", err)
		case p != nil:
			lat, lon := p.Lat, p.Lon
			l.Latitude = &lat
			l.Longitude = &lon
		}
	}

	if l.Latitude != nil && l.Longitude != nil {
		name, dist := geo.NearestReference(*l.Latitude, *l.Longitude, e.refs)
		l.NearestDowntown = name
		l.DistanceToDowntown = &dist
	}

	if !l.HasYard && l.LotSqft != nil {
		l.HasYard = *l.LotSqft > yardLotSqftThreshold
	}

	return l, nil
}

// Outcome is the per-listing result of a batch enrichment. Listing carries
// the enriched record on success and the unmodified input on failure.
type Outcome struct {
	Listing listing.Listing
	Err     error
}

// EnrichAll enriches each listing independently. A failure on one listing
// is recorded in its Outcome and the original record passed through; it
// never aborts the rest of the batch.
func (e *Enricher) EnrichAll(ctx context.Context, listings []listing.Listing) []Outcome {
	slog.Info("enriching listings", "count", len(listings))

	outcomes := make([]Outcome, 0, len(listings))
	failed := 0
	for _, l := range listings {
		enriched, err := e.Enrich(ctx, l)
		if err != nil {
			slog.Warn("failed to enrich listing", "listing", l.ID, "error", err)
			outcomes = append(outcomes, Outcome{Listing: l, Err: err})
			failed++
			continue
		}
		outcomes = append(outcomes, Outcome{Listing: enriched})
	}

	slog.Info("enrichment complete", "count", len(outcomes), "failed", failed)
	return outcomes
}

// Listings extracts the listing from each outcome, enriched or not.
func Listings(outcomes []Outcome) []listing.Listing {
	out := make([]listing.Listing, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Listing
	}
	return out
}

// titleCase upper-cases the first letter of each space-separated word and
// lower-cases the rest, matching the lookup keys in the safety table.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
