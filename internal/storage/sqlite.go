// Package storage provides SQLite-based persistence for maze runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout is how created_at is written. It sorts lexicographically.
const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for run history.
// It is safe for concurrent use by multiple sessions.
type Store struct {
	db *sql.DB
}

// Run is one attempt at a map, finished or abandoned.
type Run struct {
	ID        string // UUID, assigned by SaveRun when empty
	MapID     string
	Player    string
	Moves     int
	Bumps     int
	Completed bool
	Duration  time.Duration
	CreatedAt time.Time
}

// MapStats contains aggregated statistics for one map.
type MapStats struct {
	MapID      string
	Runs       int
	Completed  int
	BestMoves  int // 0 when no run was completed
	AvgMoves   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			map_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			moves INTEGER NOT NULL DEFAULT 0,
			bumps INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_map_id ON runs(map_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(map_id, completed, moves, duration_ms);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and returns its ID.
// A missing ID is filled with a new UUID and a zero CreatedAt with now.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.MapID == "" {
		return "", errors.New("storage: run has no map id")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, map_id, player, moves, bumps, completed, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.MapID, r.Player, r.Moves, r.Bumps, r.Completed,
		r.Duration.Milliseconds(), r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

// BestRuns returns the best completed runs of a map: fewest moves first,
// then shortest duration, then oldest.
func (s *Store) BestRuns(mapID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, map_id, player, moves, bumps, completed, duration_ms, created_at
		 FROM runs
		 WHERE map_id = ? AND completed = 1
		 ORDER BY moves ASC, duration_ms ASC, created_at ASC
		 LIMIT ?`,
		mapID, limit,
	)
}

// RecentRuns returns the latest runs across all maps, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, map_id, player, moves, bumps, completed, duration_ms, created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.MapID, &r.Player, &r.Moves, &r.Bumps, &r.Completed, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// MapStats retrieves aggregated statistics for a map.
// A map without runs yields zero counts and no error.
func (s *Store) MapStats(mapID string) (*MapStats, error) {
	stats := &MapStats{MapID: mapID}

	var best sql.NullInt64
	var avg sql.NullFloat64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(completed), 0),
		        MIN(CASE WHEN completed = 1 THEN moves END),
		        AVG(CASE WHEN completed = 1 THEN moves END),
		        MAX(created_at)
		 FROM runs WHERE map_id = ?`,
		mapID,
	).Scan(&stats.Runs, &stats.Completed, &best, &avg, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}

	if best.Valid {
		stats.BestMoves = int(best.Int64)
	}
	if avg.Valid {
		stats.AvgMoves = avg.Float64
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllMapStats retrieves statistics for every map that has runs.
func (s *Store) AllMapStats() (map[string]*MapStats, error) {
	rows, err := s.db.Query(
		`SELECT map_id,
		        COUNT(*),
		        COALESCE(SUM(completed), 0),
		        COALESCE(MIN(CASE WHEN completed = 1 THEN moves END), 0),
		        COALESCE(AVG(CASE WHEN completed = 1 THEN moves END), 0),
		        MAX(created_at)
		 FROM runs
		 GROUP BY map_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all map stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MapStats)
	for rows.Next() {
		var m MapStats
		var lastPlayed any
		if err := rows.Scan(&m.MapID, &m.Runs, &m.Completed, &m.BestMoves, &m.AvgMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.MapID] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes all runs for the given map.
func (s *Store) ClearRuns(mapID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE map_id = ?", mapID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string values from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v.UTC()
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
