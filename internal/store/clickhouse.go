// Package store owns the columnar writer and the schema it depends on: a
// single "events" table on a MergeTree-family engine, ordered by
// (site_id, occured_at) so the aggregate reader's range scans stay on the
// sort key.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/trailbeacon/core/internal/logging"
	"github.com/trailbeacon/core/internal/queue"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS events (
	site_id        String,
	occured_at     UInt32,
	timestamp      DateTime DEFAULT now(),
	event          String,
	category       String,
	referrer       String,
	referrer_domain String,
	user_id        String,
	is_touch       UInt8,
	browser_name   String,
	os_name        String,
	device_type    String,
	country        String,
	region         String,
	goal_id        String
) ENGINE = MergeTree
ORDER BY (site_id, occured_at)
`

// Event is a single enriched beacon event ready for durable storage. The
// timestamp column is not part of this struct — the store default-supplies
// it at insertion time.
type Event struct {
	SiteID         string
	OccuredAt      uint32
	EventName      string
	Category       string
	Referrer       string
	ReferrerDomain string
	UserID         string
	IsTouch        bool
	BrowserName    string
	OSName         string
	DeviceType     string
	Country        string
	Region         string
	GoalID         string
}

// Store is the columnar writer and reader over the analytics table.
type Store struct {
	db *sql.DB
}

// Config describes how to reach the analytics database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Open connects to the analytics database and ensures the schema exists.
func Open(cfg Config) (*Store, error) {
	opts := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
	}

	db := clickhouse.OpenDB(opts)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping analytics database: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		return nil, fmt.Errorf("failed to ensure events schema: %w", err)
	}

	logging.L().Info("analytics database connected")
	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle so the aggregate reader can share this
// Store's connection instead of opening a second one.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WriteBatch inserts batch as a single all-or-nothing append. It satisfies
// queue.Sink so a Store can be wired directly as the queue's flush target.
func (s *Store) WriteBatch(ctx context.Context, batch []queue.Event) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO events (
		site_id, occured_at, event, category, referrer, referrer_domain,
		user_id, is_touch, browser_name, os_name, device_type, country, region, goal_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range batch {
		ev, ok := item.(Event)
		if !ok {
			tx.Rollback()
			return fmt.Errorf("store: unexpected batch item type %T", item)
		}

		if _, err := stmt.ExecContext(ctx,
			ev.SiteID, ev.OccuredAt, ev.EventName, ev.Category, ev.Referrer,
			ev.ReferrerDomain, ev.UserID, boolToUint8(ev.IsTouch), ev.BrowserName,
			ev.OSName, ev.DeviceType, ev.Country, ev.Region, ev.GoalID,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to append event row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch insert: %w", err)
	}

	return nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
