package store

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id                   TEXT PRIMARY KEY,
		source               TEXT NOT NULL,
		url                  TEXT,
		address              TEXT NOT NULL,
		city                 TEXT NOT NULL,
		state                TEXT DEFAULT 'AZ',
		zip_code             TEXT,
		latitude             REAL,
		longitude            REAL,
		price                INTEGER,
		beds                 INTEGER,
		baths                REAL,
		sqft                 INTEGER,
		lot_sqft             INTEGER,
		year_built           INTEGER,
		property_type        TEXT,
		stories              INTEGER,
		hoa_monthly          INTEGER,
		annual_tax           INTEGER,
		days_on_market       INTEGER,
		list_date            TEXT,
		has_pool             INTEGER DEFAULT 0,
		has_yard             INTEGER DEFAULT 0,
		has_solar            INTEGER DEFAULT 0,
		has_garage           INTEGER DEFAULT 0,
		has_basement         INTEGER DEFAULT 0,
		garage_spaces        INTEGER DEFAULT 0,
		safety_index         INTEGER,
		distance_to_downtown REAL,
		nearest_downtown     TEXT,
		value_score          REAL,
		last_updated         TEXT,
		photo_url            TEXT,
		description          TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS geocode_cache (
		address   TEXT PRIMARY KEY,
		latitude  REAL,
		longitude REAL,
		cached_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_value_score ON listings(value_score)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
