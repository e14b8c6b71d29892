package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"matchfeed-engine/internal/domain"
)

const schemaVersion = 1

const (
	keyQueue      = "queue"
	keyExclusions = "exclusion_ids"
)

// Store reads and writes owner-scoped entries. Reads treat an expired or
// foreign entry as absent rather than an error.
type Store struct {
	db            *sql.DB
	owner         string
	queueTTL      time.Duration
	maxExclusions int
	logger        *zap.Logger

	now func() time.Time // test hook
}

func New(db *DB, owner string, queueTTL time.Duration, maxExclusions int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxExclusions <= 0 {
		maxExclusions = 2000
	}
	return &Store{
		db:            db.Pool,
		owner:         owner,
		queueTTL:      queueTTL,
		maxExclusions: maxExclusions,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO kv(key, data, ts, version, owner)
VALUES(?,?,?,?,?);`,
		key, string(data), s.now().UTC().Format(time.RFC3339), schemaVersion, s.owner,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// get unmarshals into out and reports whether a usable entry existed.
// Entries that are expired (when ttl > 0), version-mismatched or owned by
// a different subject are treated as absent.
func (s *Store) get(ctx context.Context, key string, ttl time.Duration, out any) (bool, error) {
	var data, tsStr, owner string
	var version int
	err := s.db.QueryRowContext(ctx, `
SELECT data, ts, version, owner FROM kv WHERE key = ?;`, key).
		Scan(&data, &tsStr, &version, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}

	if owner != s.owner || version != schemaVersion {
		return false, nil
	}
	if ttl > 0 {
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil || s.now().Sub(ts) > ttl {
			return false, nil
		}
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

// SaveQueue persists a fetched feed so the UI survives restarts.
func (s *Store) SaveQueue(ctx context.Context, profiles []domain.Profile) error {
	return s.put(ctx, keyQueue, profiles)
}

// LoadQueue returns the cached queue, or nil when absent, expired or
// owned by someone else.
func (s *Store) LoadQueue(ctx context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	ok, err := s.get(ctx, keyQueue, s.queueTTL, &profiles)
	if err != nil || !ok {
		return nil, err
	}
	return profiles, nil
}

func (s *Store) SaveExclusionIDs(ctx context.Context, ids []string) error {
	return s.put(ctx, keyExclusions, s.bound(ids))
}

// LoadExclusionIDs never expires by TTL; exclusions live until the user
// clears them.
func (s *Store) LoadExclusionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	ok, err := s.get(ctx, keyExclusions, 0, &ids)
	if err != nil || !ok {
		return nil, err
	}
	return ids, nil
}

// AddExclusionID appends one acted-on id, dropping the oldest entries once
// the bound is exceeded.
func (s *Store) AddExclusionID(ctx context.Context, id string) error {
	ids, err := s.LoadExclusionIDs(ctx)
	if err != nil {
		return err
	}
	for _, have := range ids {
		if have == id {
			return nil
		}
	}
	return s.SaveExclusionIDs(ctx, append(ids, id))
}

func (s *Store) bound(ids []string) []string {
	if len(ids) > s.maxExclusions {
		ids = ids[len(ids)-s.maxExclusions:]
	}
	return ids
}

// ClearAll wipes every entry for this owner.
func (s *Store) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE owner = ?;`, s.owner)
	if err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	return nil
}

// Prune deletes queue entries past their TTL; run from the scheduler.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.queueTTL <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.queueTTL).UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
DELETE FROM kv WHERE key = ? AND ts < ?;`, keyQueue, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
