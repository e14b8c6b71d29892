// Package store is the engine's local persistence layer: a sqlite-backed
// key-value table holding the cached feed queue and the exclusion-id set.
// Every entry is wrapped in an envelope carrying timestamp, schema version
// and owner identity; reads reject entries that are expired or foreign.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

type DB struct {
	Pool *sql.DB
	lock *flock.Flock
}

// Open locks the data directory against other engine instances and opens
// (or creates) the database inside it.
func Open(dataDir string) (*DB, error) {
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("data dir %s is in use by another engine instance", dataDir)
	}

	dbPath := filepath.Join(dataDir, "matchfeed.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite wants a single writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, err
	}

	if err := migrate(pool); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return &DB{Pool: pool, lock: lock}, nil
}

func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	if d.lock != nil {
		_ = d.lock.Unlock()
	}
	if d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  ts TEXT NOT NULL,
  version INTEGER NOT NULL,
  owner TEXT NOT NULL
);
`)
	return err
}
