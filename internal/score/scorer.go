package score

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/azhunt/house-hunter/internal/config"
	"github.com/azhunt/house-hunter/internal/listing"
)

// Scorer computes value scores from the injected scoring configuration.
// Scores are relative to the batch they are computed with: the same listing
// can receive a different score against a different batch. That is the
// point of the design, not a defect.
type Scorer struct {
	weights     config.Weights
	prefs       map[string]float64
	defaultPref float64
}

// NewScorer creates a scorer from the scoring configuration.
func NewScorer(cfg config.Scoring) *Scorer {
	return &Scorer{
		weights:     cfg.Weights,
		prefs:       cfg.LocationPrefs,
		defaultPref: cfg.DefaultLocationPref,
	}
}

// Factor is one entry in a score breakdown.
type Factor struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Raw         any     `json:"raw_value"`
	Normalized  float64 `json:"normalized"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// population holds the per-factor value sets collected once per batch.
// All listings in a batch score against the same frozen statistics.
type population struct {
	sqftPerDollar []float64
	yearBuilt     []float64
	hoa           []float64
	dom           []float64
}

// collect gathers normalization populations from a batch.
func collect(listings []listing.Listing) population {
	var pop population
	for _, l := range listings {
		if l.Price > 0 && l.Sqft > 0 {
			pop.sqftPerDollar = append(pop.sqftPerDollar, float64(l.Sqft)/float64(l.Price))
		}
		if l.YearBuilt != nil {
			pop.yearBuilt = append(pop.yearBuilt, float64(*l.YearBuilt))
		}
		if l.HOAMonthly != nil {
			pop.hoa = append(pop.hoa, float64(*l.HOAMonthly))
		}
		if l.DaysOnMarket != nil {
			pop.dom = append(pop.dom, float64(*l.DaysOnMarket))
		}
	}
	return pop
}

// Score returns the value score in [0,100] for a listing, normalized
// against the given batch and rounded to 1 decimal place.
func (s *Scorer) Score(l listing.Listing, batch []listing.Listing) float64 {
	return s.scoreWith(l, collect(batch))
}

func (s *Scorer) scoreWith(l listing.Listing, pop population) float64 {
	total := 0.0
	for _, f := range s.factors(l, pop) {
		total += f.Points
	}
	return round1(total)
}

// Breakdown returns the per-factor contributions for a listing against the
// given batch. It uses the same populations and formulas as Score, so the
// factor points sum to the score (within final rounding).
func (s *Scorer) Breakdown(l listing.Listing, batch []listing.Listing) []Factor {
	return s.factors(l, collect(batch))
}

// ScoreAll filters the batch to listings with a price, scores each against
// the filtered batch, and returns them sorted descending by score.
// Zero-price listings cannot be meaningfully scored and are excluded from
// the output rather than scored as 0.
func (s *Scorer) ScoreAll(listings []listing.Listing) []listing.Listing {
	slog.Info("scoring listings", "count", len(listings))

	valid := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price > 0 {
			valid = append(valid, l)
		}
	}

	pop := collect(valid)
	for i := range valid {
		score := s.scoreWith(valid[i], pop)
		valid[i].ValueScore = &score
	}

	sort.Slice(valid, func(i, j int) bool {
		return *valid[i].ValueScore > *valid[j].ValueScore
	})

	if len(valid) > 0 {
		slog.Info("scoring complete", "count", len(valid), "top", *valid[0].ValueScore)
	} else {
		slog.Info("scoring complete", "count", 0)
	}

	return valid
}

// factors computes all eight factor contributions. Points are left
// unrounded so their sum matches the final rounded score.
func (s *Scorer) factors(l listing.Listing, pop population) []Factor {
	return []Factor{
		s.sqftValueFactor(l, pop),
		s.yearBuiltFactor(l, pop),
		s.lowHOAFactor(l, pop),
		s.locationFactor(l),
		s.boolFactor("private_yard", s.weights.PrivateYard, l.HasYard, "Has yard", "No yard"),
		s.daysOnMarketFactor(l, pop),
		s.boolFactor("pool", s.weights.Pool, l.HasPool, "Has pool", "No pool"),
		s.boolFactor("solar", s.weights.Solar, l.HasSolar, "Has solar", "No solar"),
	}
}

// sqftValueFactor rewards square footage per dollar. A listing without
// price or sqft contributes nothing.
func (s *Scorer) sqftValueFactor(l listing.Listing, pop population) Factor {
	f := Factor{Name: "sqft_value", Weight: s.weights.SqftValue}

	if l.Price <= 0 || l.Sqft <= 0 {
		f.Description = "No price or sqft data"
		return f
	}

	spd := float64(l.Sqft) / float64(l.Price)
	f.Normalized = Normalize(spd, pop.sqftPerDollar, false)
	f.Points = f.Normalized * f.Weight
	f.Raw = round2(spd * 1000) // sqft per $1000
	f.Description = fmt.Sprintf("%.1f sqft per $1000", spd*1000)
	return f
}

// yearBuiltFactor rewards newer construction; missing data is neutral.
func (s *Scorer) yearBuiltFactor(l listing.Listing, pop population) Factor {
	f := Factor{Name: "year_built", Weight: s.weights.YearBuilt}

	if l.YearBuilt == nil || len(pop.yearBuilt) == 0 {
		f.Normalized = 0.5
		f.Points = 0.5 * f.Weight
		f.Description = "Year built unknown"
		return f
	}

	f.Normalized = Normalize(float64(*l.YearBuilt), pop.yearBuilt, false)
	f.Points = f.Normalized * f.Weight
	f.Raw = *l.YearBuilt
	f.Description = fmt.Sprintf("Built in %d", *l.YearBuilt)
	return f
}

// lowHOAFactor rewards lower fees; the absence of a fee is maximally good.
func (s *Scorer) lowHOAFactor(l listing.Listing, pop population) Factor {
	f := Factor{Name: "low_hoa", Weight: s.weights.LowHOA}

	if l.HOAMonthly == nil || len(pop.hoa) == 0 {
		f.Normalized = 1
		f.Points = f.Weight
		f.Description = "No HOA"
		return f
	}

	f.Normalized = Normalize(float64(*l.HOAMonthly), pop.hoa, true)
	f.Points = f.Normalized * f.Weight
	f.Raw = *l.HOAMonthly
	if *l.HOAMonthly == 0 {
		f.Description = "No HOA"
	} else {
		f.Description = fmt.Sprintf("$%d/month HOA", *l.HOAMonthly)
	}
	return f
}

// locationFactor applies the static per-city preference weight.
func (s *Scorer) locationFactor(l listing.Listing) Factor {
	pref, ok := s.prefs[l.City]
	if !ok {
		pref = s.defaultPref
	}

	return Factor{
		Name:        "location",
		Weight:      s.weights.Location,
		Raw:         l.City,
		Normalized:  pref,
		Points:      pref * s.weights.Location,
		Description: fmt.Sprintf("%s (%.0f%% preference)", l.City, pref*100),
	}
}

// daysOnMarketFactor treats long time on market as a potential-deal
// signal; missing data is neutral.
func (s *Scorer) daysOnMarketFactor(l listing.Listing, pop population) Factor {
	f := Factor{Name: "days_on_market", Weight: s.weights.DaysOnMarket}

	if l.DaysOnMarket == nil || len(pop.dom) == 0 {
		f.Normalized = 0.5
		f.Points = 0.5 * f.Weight
		f.Description = "Days on market unknown"
		return f
	}

	f.Normalized = Normalize(float64(*l.DaysOnMarket), pop.dom, false)
	f.Points = f.Normalized * f.Weight
	f.Raw = *l.DaysOnMarket
	f.Description = fmt.Sprintf("%d days on market", *l.DaysOnMarket)
	return f
}

// boolFactor awards full weight when the flag is set, zero otherwise.
func (s *Scorer) boolFactor(name string, weight float64, set bool, yes, no string) Factor {
	f := Factor{Name: name, Weight: weight, Raw: set, Description: no}
	if set {
		f.Normalized = 1
		f.Points = weight
		f.Description = yes
	}
	return f
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
