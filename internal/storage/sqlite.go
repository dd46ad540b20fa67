// Package storage provides SQLite-based persistence for donut session history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Session origins.
const (
	OriginLocal     = "local"
	OriginSSHPrefix = "ssh:"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for session history.
type Store struct {
	db *sql.DB
}

// Session is one finished viewing session.
type Session struct {
	ID           int64
	Origin       string // "local" or "ssh:<user>"
	Presented    int    // Frames shown, paused frames included
	Computed     int    // Frames rasterized
	Resets       int
	PauseToggles int
	Duration     time.Duration
	AvgFPS       float64
	CreatedAt    time.Time
}

// Totals aggregates every recorded session.
type Totals struct {
	Sessions      int
	Presented     int64
	Computed      int64
	TotalDuration time.Duration
	BestAvgFPS    float64
	LastSession   time.Time
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

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			origin TEXT NOT NULL,
			presented INTEGER NOT NULL DEFAULT 0,
			computed INTEGER NOT NULL DEFAULT 0,
			resets INTEGER NOT NULL DEFAULT 0,
			pause_toggles INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			avg_fps REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_origin ON sessions(origin);
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

// SaveSession records a finished session and returns its ID.
func (s *Store) SaveSession(sess Session) (int64, error) {
	if sess.Origin == "" {
		sess.Origin = OriginLocal
	}

	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (origin, presented, computed, resets, pause_toggles, duration_ms, avg_fps)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.Origin,
		sess.Presented,
		sess.Computed,
		sess.Resets,
		sess.PauseToggles,
		sess.Duration.Milliseconds(),
		sess.AvgFPS,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, origin, presented, computed, resets, pause_toggles,
		        duration_ms, avg_fps, created_at
		 FROM sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&sess.ID,
			&sess.Origin,
			&sess.Presented,
			&sess.Computed,
			&sess.Resets,
			&sess.PauseToggles,
			&durationMS,
			&sess.AvgFPS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// Totals returns aggregated statistics over all sessions.
func (s *Store) Totals() (*Totals, error) {
	totals := &Totals{}
	var durationMS int64

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(presented), 0), COALESCE(SUM(computed), 0),
		        COALESCE(SUM(duration_ms), 0), COALESCE(MAX(avg_fps), 0)
		 FROM sessions`,
	).Scan(&totals.Sessions, &totals.Presented, &totals.Computed, &durationMS, &totals.BestAvgFPS)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get totals: %w", err)
	}
	totals.TotalDuration = time.Duration(durationMS) * time.Millisecond

	var lastSession any
	err = s.db.QueryRow(
		`SELECT created_at FROM sessions ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&lastSession)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last session: %w", err)
	}
	if err == nil {
		totals.LastSession = parseTime(lastSession)
	}

	return totals, nil
}

// ClearSessions deletes the whole history and returns how many rows went.
func (s *Store) ClearSessions() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared sessions: %w", err)
	}
	return n, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
