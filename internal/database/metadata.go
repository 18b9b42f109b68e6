// Package database owns the metadata Postgres connection. This core never
// queries it for site/user/API-key data — that schema belongs to a
// dashboard service elsewhere — but it still opens the connection at boot
// and closes it at shutdown alongside the columnar handle.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/trailbeacon/core/internal/config"
	"github.com/trailbeacon/core/internal/logging"
)

// Metadata is the shared metadata-DB handle.
var Metadata *sql.DB

// ConnectMetadata opens and pings the metadata database using cfg.
func ConnectMetadata(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.MetadataHost, cfg.MetadataPort, cfg.MetadataUser, cfg.MetadataPass,
		cfg.MetadataName, cfg.MetadataSSLMode)
	return ConnectMetadataDSN(dsn)
}

// ConnectMetadataDSN opens and pings the metadata database using a raw DSN
// (exposed separately so tests can point at a fixture without building one
// from a Config).
func ConnectMetadataDSN(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("metadata DSN cannot be empty")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open metadata database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping metadata database: %w", err)
	}

	Metadata = db
	logging.L().Info("metadata database connected")
	return nil
}

// CloseMetadata closes the metadata handle if one is open.
func CloseMetadata() error {
	if Metadata != nil {
		return Metadata.Close()
	}
	return nil
}
