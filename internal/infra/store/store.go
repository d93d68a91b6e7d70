// Package store provides SQLite-backed persistence: a TTL cache for
// upstream game-data documents and a history of computed plans.
//
// Uses modernc.org/sqlite (pure Go, no CGO) via database/sql.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Cached upstream documents (codex JSON, inventory snapshots)
		`CREATE TABLE IF NOT EXISTS doc_cache (
			key        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			fetched_at TEXT NOT NULL DEFAULT (datetime('now')),
			expires_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_expires ON doc_cache(expires_at)`,

		// Computed plan summaries
		`CREATE TABLE IF NOT EXISTS plan_history (
			id          TEXT PRIMARY KEY,
			claim_id    TEXT NOT NULL,
			target_tier INTEGER NOT NULL,
			batch_count INTEGER NOT NULL,
			percent     INTEGER NOT NULL,
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_claim ON plan_history(claim_id, created_at)`,
	}
}

// Open opens (or creates) the store at path and applies migrations.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// ─── Document Cache ─────────────────────────────────────────────────────────

// Get returns a cached document body, or ok=false when the key is absent
// or expired. Expired rows are removed on read.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var body []byte
	var expires string
	err := s.db.QueryRow(
		`SELECT body, expires_at FROM doc_cache WHERE key = ?`, key,
	).Scan(&body, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	exp, err := time.Parse(time.DateTime, expires)
	if err != nil || !time.Now().UTC().Before(exp) {
		_, _ = s.db.Exec(`DELETE FROM doc_cache WHERE key = ?`, key)
		return nil, false, nil
	}
	return body, true, nil
}

// Set stores a document body under key with the given time-to-live.
func (s *Store) Set(key string, body []byte, ttl time.Duration) error {
	expires := time.Now().UTC().Add(ttl).Format(time.DateTime)
	_, err := s.db.Exec(`
		INSERT INTO doc_cache (key, body, fetched_at, expires_at)
		VALUES (?, ?, datetime('now'), ?)
		ON CONFLICT(key) DO UPDATE SET
			body       = excluded.body,
			fetched_at = datetime('now'),
			expires_at = excluded.expires_at
	`, key, body, expires)
	return err
}

// Prune deletes all expired cache rows and returns how many were removed.
func (s *Store) Prune() (int64, error) {
	now := time.Now().UTC().Format(time.DateTime)
	res, err := s.db.Exec(`DELETE FROM doc_cache WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ─── Plan History ───────────────────────────────────────────────────────────

// PlanRecord is one row of the plan history.
type PlanRecord struct {
	ID         string
	ClaimID    string
	TargetTier int
	BatchCount int
	Percent    int
	CreatedAt  time.Time
}

// RecordPlan saves a computed plan's summary.
func (s *Store) RecordPlan(rec PlanRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO plan_history (id, claim_id, target_tier, batch_count, percent)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.ClaimID, rec.TargetTier, rec.BatchCount, rec.Percent)
	return err
}

// PlanHistory lists the most recent plans, newest first. An empty claimID
// matches every claim.
func (s *Store) PlanHistory(claimID string, limit int) ([]PlanRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, claim_id, target_tier, batch_count, percent, created_at
		FROM plan_history
		WHERE ? = '' OR claim_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, claimID, claimID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlanRecord
	for rows.Next() {
		var rec PlanRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.ClaimID, &rec.TargetTier, &rec.BatchCount, &rec.Percent, &created); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.DateTime, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
