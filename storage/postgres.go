package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"nepremwatch/internal/scraper"
	"nepremwatch/pkg/errors"
)

const createListingsTable = `
CREATE TABLE IF NOT EXISTS listings (
	url             TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	price_amount    TEXT,
	currency        TEXT,
	location        TEXT,
	description     TEXT,
	area_m2         TEXT,
	year_built      TEXT,
	renovation_year TEXT,
	is_new_building TEXT,
	floor           TEXT,
	room_type       TEXT,
	listing_type    TEXT,
	labels          TEXT,
	agency_name     TEXT,
	agency_url      TEXT,
	agency_phone    TEXT,
	images          TEXT,
	bedrooms_count  TEXT,
	bathrooms_count TEXT,
	scraped_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertListing = `
INSERT INTO listings (
	url, title, price_amount, currency, location, description, area_m2,
	year_built, renovation_year, is_new_building, floor, room_type,
	listing_type, labels, agency_name, agency_url, agency_phone, images,
	bedrooms_count, bathrooms_count, scraped_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, now()
)
ON CONFLICT (url) DO UPDATE SET
	title = EXCLUDED.title,
	price_amount = EXCLUDED.price_amount,
	currency = EXCLUDED.currency,
	location = EXCLUDED.location,
	description = EXCLUDED.description,
	area_m2 = EXCLUDED.area_m2,
	year_built = EXCLUDED.year_built,
	renovation_year = EXCLUDED.renovation_year,
	is_new_building = EXCLUDED.is_new_building,
	floor = EXCLUDED.floor,
	room_type = EXCLUDED.room_type,
	listing_type = EXCLUDED.listing_type,
	labels = EXCLUDED.labels,
	agency_name = EXCLUDED.agency_name,
	agency_url = EXCLUDED.agency_url,
	agency_phone = EXCLUDED.agency_phone,
	images = EXCLUDED.images,
	bedrooms_count = EXCLUDED.bedrooms_count,
	bathrooms_count = EXCLUDED.bathrooms_count,
	scraped_at = now()`

// PostgresWriter upserts listings into a postgres table keyed by URL, so
// repeated runs refresh rows instead of duplicating them.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter connects, verifies the connection and ensures the
// listings table exists
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewState("postgres", "failed to open connection", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewState("postgres", "failed to reach database", err)
	}
	if _, err := db.Exec(createListingsTable); err != nil {
		db.Close()
		return nil, errors.NewState("postgres", "failed to create listings table", err)
	}
	return &PostgresWriter{db: db}, nil
}

// Write upserts the whole batch in one transaction
func (w *PostgresWriter) Write(ctx context.Context, listings []scraper.Listing) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewState("postgres", "failed to begin transaction", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertListing)
	if err != nil {
		tx.Rollback()
		return errors.NewState("postgres", "failed to prepare upsert", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		_, err := stmt.ExecContext(ctx,
			l.URL, l.Title, l.PriceAmount, l.Currency, l.Location,
			l.Description, l.AreaM2, l.YearBuilt, l.RenovationYear,
			l.IsNewBuilding, l.Floor, l.RoomType, l.ListingType, l.Labels,
			l.AgencyName, l.AgencyURL, l.AgencyPhone, l.Images,
			l.BedroomsCount, l.BathroomsCount,
		)
		if err != nil {
			tx.Rollback()
			return errors.NewState("postgres", "failed to upsert listing "+l.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewState("postgres", "failed to commit batch", err)
	}
	return nil
}

// Close releases the connection pool
func (w *PostgresWriter) Close() error {
	return w.db.Close()
}
