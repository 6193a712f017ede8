// Package sqlite persists forecast and verification records in a local
// SQLite database (pure-Go modernc driver).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

// hourLayout is fixed-width so lexical order matches time order.
const hourLayout = "2006-01-02T15:04:05Z"

const schema = `
CREATE TABLE IF NOT EXISTS forecasts (
	id              TEXT PRIMARY KEY,
	spot            TEXT NOT NULL,
	hour            TEXT NOT NULL,
	generated_at    TEXT NOT NULL,
	score           INTEGER NOT NULL,
	rating          TEXT NOT NULL,
	breaking_height REAL NOT NULL,
	payload         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_forecasts_spot_hour ON forecasts(spot, hour);

CREATE TABLE IF NOT EXISTS verifications (
	spot      TEXT NOT NULL,
	hour      TEXT NOT NULL,
	height    REAL,
	period    REAL,
	direction REAL,
	source    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (spot, hour)
);
`

// Store is the forecast and verification repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection serializes writers and keeps :memory: a single database.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable. Used as a readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveForecasts upserts records by ID in one transaction. A recomputed hour
// replaces the prior record.
func (s *Store) SaveForecasts(ctx context.Context, records []domain.ForecastRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO forecasts (id, spot, hour, generated_at, score, rating, breaking_height, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				generated_at    = excluded.generated_at,
				score           = excluded.score,
				rating          = excluded.rating,
				breaking_height = excluded.breaking_height,
				payload         = excluded.payload`)
		if err != nil {
			return fmt.Errorf("prepare forecast upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			payload, err := json.Marshal(r.ForecastOutput)
			if err != nil {
				return fmt.Errorf("encode forecast %s: %w", r.ID, err)
			}
			if _, err := stmt.ExecContext(ctx,
				r.ID, r.Spot, hourKey(r.Time), r.GeneratedAt.UTC().Format(time.RFC3339Nano),
				r.Score, string(r.Rating), r.BreakingHeight, string(payload),
			); err != nil {
				return fmt.Errorf("upsert forecast %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

// Forecasts returns a spot's records with from <= hour < to, oldest first.
// Bounds are exact instants, not hours. A zero from or to leaves that side open.
func (s *Store) Forecasts(ctx context.Context, spotKey string, from, to time.Time) ([]domain.ForecastRecord, error) {
	lo, hi := "", "9999"
	if !from.IsZero() {
		lo = boundKey(from)
	}
	if !to.IsZero() {
		hi = boundKey(to)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, payload FROM forecasts
		WHERE spot = ? AND hour >= ? AND hour < ?
		ORDER BY hour`, spotKey, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query forecasts: %w", err)
	}
	defer rows.Close()

	var out []domain.ForecastRecord
	for rows.Next() {
		var (
			rec       domain.ForecastRecord
			generated string
			payload   string
		)
		if err := rows.Scan(&rec.ID, &generated, &payload); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.ForecastOutput); err != nil {
			return nil, fmt.Errorf("decode forecast %s: %w", rec.ID, err)
		}
		if rec.GeneratedAt, err = time.Parse(time.RFC3339Nano, generated); err != nil {
			return nil, fmt.Errorf("decode forecast %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveVerifications upserts verification records keyed by spot and hour.
// Spots must already be canonical keys.
func (s *Store) SaveVerifications(ctx context.Context, records []domain.VerificationRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO verifications (spot, hour, height, period, direction, source)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(spot, hour) DO UPDATE SET
				height    = excluded.height,
				period    = excluded.period,
				direction = excluded.direction,
				source    = excluded.source`)
		if err != nil {
			return fmt.Errorf("prepare verification upsert: %w", err)
		}
		defer stmt.Close()

		for _, v := range records {
			if _, err := stmt.ExecContext(ctx,
				v.Spot, hourKey(v.Time), nullable(v.Height), nullable(v.Period), nullable(v.Direction), v.Source,
			); err != nil {
				return fmt.Errorf("upsert verification %s@%s: %w", v.Spot, hourKey(v.Time), err)
			}
		}
		return nil
	})
}

// Verification returns the record for a spot and hour, or nil when none exists.
func (s *Store) Verification(ctx context.Context, spotKey string, t time.Time) (*domain.VerificationRecord, error) {
	var (
		height, period, direction sql.NullFloat64
		source                    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT height, period, direction, source FROM verifications
		WHERE spot = ? AND hour = ?`, spotKey, hourKey(t)).
		Scan(&height, &period, &direction, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query verification: %w", err)
	}
	return &domain.VerificationRecord{
		Spot:      spotKey,
		Time:      t.UTC().Truncate(time.Hour),
		Height:    fromNull(height),
		Period:    fromNull(period),
		Direction: fromNull(direction),
		Source:    source,
	}, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func hourKey(t time.Time) string {
	return t.UTC().Truncate(time.Hour).Format(hourLayout)
}

// boundKey formats a window bound without truncating to the hour, so a bound
// inside an hour compares correctly against stored hour keys. Sub-second
// bounds round up to the next second.
func boundKey(t time.Time) string {
	t = t.UTC()
	if s := t.Truncate(time.Second); !s.Equal(t) {
		t = s.Add(time.Second)
	}
	return t.Format(hourLayout)
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
