package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/azhunt/house-hunter/internal/listing"
)

// Listings provides CRUD and filter queries for the listings table.
type Listings struct {
	db *sql.DB
}

// NewListings creates a listings repository.
func NewListings(db *sql.DB) *Listings {
	return &Listings{db: db}
}

const listingColumns = `id, source, url, address, city, state, zip_code,
	latitude, longitude, price, beds, baths, sqft, lot_sqft, year_built,
	property_type, stories, hoa_monthly, annual_tax, days_on_market,
	list_date, has_pool, has_yard, has_solar, has_garage, has_basement,
	garage_spaces, safety_index, distance_to_downtown, nearest_downtown,
	value_score, last_updated, photo_url, description`

const saveSQL = `INSERT OR REPLACE INTO listings (` + listingColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Save inserts or replaces a single listing.
func (r *Listings) Save(l listing.Listing) error {
	lastUpdated := l.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = time.Now()
	}

	_, err := r.db.Exec(saveSQL,
		l.ID, l.Source, l.URL, l.Address, l.City, l.State, l.ZipCode,
		l.Latitude, l.Longitude, l.Price, l.Beds, l.Baths, l.Sqft, l.LotSqft,
		l.YearBuilt, l.PropertyType, l.Stories, l.HOAMonthly, l.AnnualTax,
		l.DaysOnMarket, l.ListDate,
		l.HasPool, l.HasYard, l.HasSolar, l.HasGarage, l.HasBasement,
		l.GarageSpaces, l.SafetyIndex, l.DistanceToDowntown, l.NearestDowntown,
		l.ValueScore, lastUpdated.Format(time.RFC3339), l.PhotoURL, l.Description,
	)
	if err != nil {
		return fmt.Errorf("saving listing %s: %w", l.ID, err)
	}
	return nil
}

// SaveAll saves a batch of listings in one transaction.
func (r *Listings) SaveAll(listings []listing.Listing) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	for _, l := range listings {
		lastUpdated := l.LastUpdated
		if lastUpdated.IsZero() {
			lastUpdated = time.Now()
		}
		if _, err := tx.Exec(saveSQL,
			l.ID, l.Source, l.URL, l.Address, l.City, l.State, l.ZipCode,
			l.Latitude, l.Longitude, l.Price, l.Beds, l.Baths, l.Sqft, l.LotSqft,
			l.YearBuilt, l.PropertyType, l.Stories, l.HOAMonthly, l.AnnualTax,
			l.DaysOnMarket, l.ListDate,
			l.HasPool, l.HasYard, l.HasSolar, l.HasGarage, l.HasBasement,
			l.GarageSpaces, l.SafetyIndex, l.DistanceToDowntown, l.NearestDowntown,
			l.ValueScore, lastUpdated.Format(time.RFC3339), l.PhotoURL, l.Description,
		); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("saving listing %s: %w (also failed to roll back: %v)", l.ID, err, rbErr)
			}
			return fmt.Errorf("saving listing %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing listings: %w", err)
	}
	return nil
}

// ReplaceAll clears the listings table and saves the batch. Listings are
// refreshed in full-batch cycles, never partially updated.
func (r *Listings) ReplaceAll(listings []listing.Listing) error {
	if _, err := r.db.Exec("DELETE FROM listings"); err != nil {
		return fmt.Errorf("clearing listings: %w", err)
	}
	return r.SaveAll(listings)
}

// GetByID returns a listing by its ID.
func (r *Listings) GetByID(id string) (*listing.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings WHERE id = ?", listingColumns)
	row := r.db.QueryRow(query, id)

	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("listing %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying listing %s: %w", id, err)
	}

	return l, nil
}

// FilterOptions controls the optional predicates for Filter. Nil fields
// are not applied.
type FilterOptions struct {
	MinPrice    *int64
	MaxPrice    *int64
	MinBeds     *int
	MinBaths    *float64
	MinSqft     *int64
	Cities      []string
	HasYard     *bool
	HasPool     *bool
	HasSolar    *bool
	MaxAgeYears *int
}

// Filter returns listings matching the options, ordered by value score
// descending.
func (r *Listings) Filter(opts FilterOptions) ([]listing.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings", listingColumns)
	var args []any
	var conditions []string

	if opts.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *opts.MaxPrice)
	}
	if opts.MinBeds != nil {
		conditions = append(conditions, "beds >= ?")
		args = append(args, *opts.MinBeds)
	}
	if opts.MinBaths != nil {
		conditions = append(conditions, "baths >= ?")
		args = append(args, *opts.MinBaths)
	}
	if opts.MinSqft != nil {
		conditions = append(conditions, "sqft >= ?")
		args = append(args, *opts.MinSqft)
	}
	if len(opts.Cities) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(opts.Cities)), ",")
		conditions = append(conditions, fmt.Sprintf("city IN (%s)", placeholders))
		for _, c := range opts.Cities {
			args = append(args, c)
		}
	}
	if opts.HasYard != nil {
		conditions = append(conditions, "has_yard = ?")
		args = append(args, *opts.HasYard)
	}
	if opts.HasPool != nil {
		conditions = append(conditions, "has_pool = ?")
		args = append(args, *opts.HasPool)
	}
	if opts.HasSolar != nil {
		conditions = append(conditions, "has_solar = ?")
		args = append(args, *opts.HasSolar)
	}
	if opts.MaxAgeYears != nil {
		minYear := time.Now().Year() - *opts.MaxAgeYears
		conditions = append(conditions, "year_built >= ?")
		args = append(args, minYear)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY COALESCE(value_score, 0) DESC, price ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("closing rows", "error", closeErr)
		}
	}()

	var listings []listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}

	return listings, nil
}

// All returns every listing, ordered by value score descending.
func (r *Listings) All() ([]listing.Listing, error) {
	return r.Filter(FilterOptions{})
}

// scanListing scans a listing from a database row.
func scanListing(row interface{ Scan(...any) error }) (*listing.Listing, error) {
	var l listing.Listing
	var latitude, longitude, distance, valueScore sql.NullFloat64
	var baths sql.NullFloat64
	var price, sqft, lotSqft, hoaMonthly, annualTax sql.NullInt64
	var beds, yearBuilt, stories, daysOnMarket, garageSpaces, safetyIndex sql.NullInt64
	var url, state, zipCode, propertyType, listDate, nearestDowntown sql.NullString
	var lastUpdated, photoURL, description sql.NullString
	var hasPool, hasYard, hasSolar, hasGarage, hasBasement sql.NullBool

	err := row.Scan(
		&l.ID, &l.Source, &url, &l.Address, &l.City, &state, &zipCode,
		&latitude, &longitude, &price, &beds, &baths, &sqft, &lotSqft,
		&yearBuilt, &propertyType, &stories, &hoaMonthly, &annualTax,
		&daysOnMarket, &listDate, &hasPool, &hasYard, &hasSolar, &hasGarage,
		&hasBasement, &garageSpaces, &safetyIndex, &distance,
		&nearestDowntown, &valueScore, &lastUpdated, &photoURL, &description,
	)
	if err != nil {
		return nil, err
	}

	l.URL = url.String
	l.State = state.String
	l.ZipCode = zipCode.String
	l.PropertyType = propertyType.String
	l.ListDate = listDate.String
	l.NearestDowntown = nearestDowntown.String
	l.PhotoURL = photoURL.String
	l.Description = description.String
	l.Price = price.Int64
	l.Beds = int(beds.Int64)
	l.Baths = baths.Float64
	l.Sqft = sqft.Int64
	l.GarageSpaces = int(garageSpaces.Int64)
	l.HasPool = hasPool.Bool
	l.HasYard = hasYard.Bool
	l.HasSolar = hasSolar.Bool
	l.HasGarage = hasGarage.Bool
	l.HasBasement = hasBasement.Bool

	if latitude.Valid {
		l.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		l.Longitude = &longitude.Float64
	}
	if lotSqft.Valid {
		l.LotSqft = &lotSqft.Int64
	}
	if yearBuilt.Valid {
		y := int(yearBuilt.Int64)
		l.YearBuilt = &y
	}
	if stories.Valid {
		st := int(stories.Int64)
		l.Stories = &st
	}
	if hoaMonthly.Valid {
		l.HOAMonthly = &hoaMonthly.Int64
	}
	if annualTax.Valid {
		l.AnnualTax = &annualTax.Int64
	}
	if daysOnMarket.Valid {
		d := int(daysOnMarket.Int64)
		l.DaysOnMarket = &d
	}
	if safetyIndex.Valid {
		s := int(safetyIndex.Int64)
		l.SafetyIndex = &s
	}
	if distance.Valid {
		l.DistanceToDowntown = &distance.Float64
	}
	if valueScore.Valid {
		l.ValueScore = &valueScore.Float64
	}
	if lastUpdated.Valid && lastUpdated.String != "" {
		if t, err := time.Parse(time.RFC3339, lastUpdated.String); err == nil {
			l.LastUpdated = t
		}
	}

	return &l, nil
}
