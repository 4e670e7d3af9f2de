// Package catalog serves the reference panel types and locations that
// preset simulations are built from.
//
// The catalog lives in SQLite (in memory by default) and is seeded on first
// open. It is read-only at runtime; simulations are never stored.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/seenimoa/solarsim/internal/infra"
	"github.com/seenimoa/solarsim/pkg/models"
)

// ErrNotFound is returned when a panel type or location id does not exist.
var ErrNotFound = errors.New("catalog: not found")

const schema = `
CREATE TABLE IF NOT EXISTS panel_types (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	manufacturer   TEXT NOT NULL,
	efficiency     REAL NOT NULL,
	wattage        INTEGER NOT NULL,
	price_per_watt REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	city                  TEXT NOT NULL,
	country               TEXT NOT NULL,
	latitude              REAL NOT NULL,
	longitude             REAL NOT NULL,
	avg_sun_hours_per_day REAL NOT NULL
);
`

// Store is a read-only view over the catalog database.
type Store struct {
	db        *sqlx.DB
	panels    *infra.Cache[[]models.PanelType]
	locations *infra.Cache[[]models.Location]
}

// Open connects to dsn, creates the schema and seeds empty tables.
// Listings are cached for cacheTTL.
func Open(ctx context.Context, dsn string, cacheTTL time.Duration) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps an in-memory database alive and shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{
		db:        db,
		panels:    infra.NewCache[[]models.PanelType](cacheTTL),
		locations: infra.NewCache[[]models.Location](cacheTTL),
	}
	if err := s.seed(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) seed(ctx context.Context) error {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM panel_types`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range seedPanels {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO panel_types (name, manufacturer, efficiency, wattage, price_per_watt)
			VALUES (:name, :manufacturer, :efficiency, :wattage, :price_per_watt)`, p); err != nil {
			return fmt.Errorf("insert panel %q: %w", p.Name, err)
		}
	}
	for _, l := range seedLocations {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO locations (city, country, latitude, longitude, avg_sun_hours_per_day)
			VALUES (:city, :country, :latitude, :longitude, :avg_sun_hours_per_day)`, l); err != nil {
			return fmt.Errorf("insert location %q: %w", l.City, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("catalog: seeded %d panel types, %d locations", len(seedPanels), len(seedLocations))
	return nil
}

// Panels lists all panel types ordered by id.
func (s *Store) Panels(ctx context.Context) ([]models.PanelType, error) {
	return s.panels.GetOrLoad("all", func() ([]models.PanelType, error) {
		var out []models.PanelType
		err := s.db.SelectContext(ctx, &out, `
			SELECT id, name, manufacturer, efficiency, wattage, price_per_watt
			FROM panel_types ORDER BY id`)
		if err != nil {
			return nil, fmt.Errorf("list panel types: %w", err)
		}
		return out, nil
	})
}

// Panel returns one panel type by id.
func (s *Store) Panel(ctx context.Context, id int64) (models.PanelType, error) {
	var p models.PanelType
	err := s.db.GetContext(ctx, &p, `
		SELECT id, name, manufacturer, efficiency, wattage, price_per_watt
		FROM panel_types WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("panel type %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("get panel type %d: %w", id, err)
	}
	return p, nil
}

// Locations lists all locations ordered by id.
func (s *Store) Locations(ctx context.Context) ([]models.Location, error) {
	return s.locations.GetOrLoad("all", func() ([]models.Location, error) {
		var out []models.Location
		err := s.db.SelectContext(ctx, &out, `
			SELECT id, city, country, latitude, longitude, avg_sun_hours_per_day
			FROM locations ORDER BY id`)
		if err != nil {
			return nil, fmt.Errorf("list locations: %w", err)
		}
		return out, nil
	})
}

// Location returns one location by id.
func (s *Store) Location(ctx context.Context, id int64) (models.Location, error) {
	var l models.Location
	err := s.db.GetContext(ctx, &l, `
		SELECT id, city, country, latitude, longitude, avg_sun_hours_per_day
		FROM locations WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return l, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return l, fmt.Errorf("get location %d: %w", id, err)
	}
	return l, nil
}

// Request builds the estimator input for a panel type installed at a
// location over roofSizeM2 of roof.
func (s *Store) Request(ctx context.Context, locationID, panelID int64, roofSizeM2 float64) (models.SimulationRequest, error) {
	loc, err := s.Location(ctx, locationID)
	if err != nil {
		return models.SimulationRequest{}, err
	}
	panel, err := s.Panel(ctx, panelID)
	if err != nil {
		return models.SimulationRequest{}, err
	}
	return loc.Request(panel, roofSizeM2), nil
}

// ParseID parses a path id. Non-numeric ids are reported as ErrNotFound.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", raw, ErrNotFound)
	}
	return id, nil
}
