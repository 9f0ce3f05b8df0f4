package store

import (
	"database/sql"
	"fmt"

	"github.com/azhunt/house-hunter/internal/geo"
)

// GeoCache is the SQLite-backed geocode cache, keyed by the full formatted
// address string. Entries persist indefinitely; staleness is accepted.
type GeoCache struct {
	db *sql.DB
}

// NewGeoCache creates a geocode cache backed by the given database.
func NewGeoCache(db *sql.DB) *GeoCache {
	return &GeoCache{db: db}
}

// Get returns the cached coordinates for an address, or (nil, nil) on a
// cache miss.
func (c *GeoCache) Get(address string) (*geo.Point, error) {
	var lat, lon sql.NullFloat64
	err := c.db.QueryRow(
		"SELECT latitude, longitude FROM geocode_cache WHERE address = ?",
		address,
	).Scan(&lat, &lon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying geocode cache: %w", err)
	}

	if !lat.Valid || !lon.Valid {
		return nil, nil
	}

	return &geo.Point{Lat: lat.Float64, Lon: lon.Float64}, nil
}

// Put stores coordinates for an address, replacing any existing entry.
func (c *GeoCache) Put(address string, p geo.Point) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO geocode_cache (address, latitude, longitude) VALUES (?, ?, ?)",
		address, p.Lat, p.Lon,
	)
	if err != nil {
		return fmt.Errorf("writing geocode cache: %w", err)
	}
	return nil
}
