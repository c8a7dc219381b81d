package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SessionRow is the index entry of a live arena session. Match state itself
// is never stored.
type SessionRow struct {
	Code      string
	GameType  string
	Status    string // "active", "finished"
	CreatedAt time.Time
}

// ResultRow is one finished game.
type ResultRow struct {
	ID          string    `json:"id"`
	SessionCode string    `json:"sessionCode"`
	GameType    string    `json:"gameType"`
	Status      string    `json:"status"`
	Winner      string    `json:"winner,omitempty"`
	Score       int       `json:"score"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Store handles SQLite persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	// WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			code       TEXT PRIMARY KEY,
			game_type  TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS results (
			id           TEXT PRIMARY KEY,
			session_code TEXT NOT NULL,
			game_type    TEXT NOT NULL,
			status       TEXT NOT NULL,
			winner       TEXT NOT NULL DEFAULT '',
			score        INTEGER NOT NULL DEFAULT 0,
			finished_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS results_game ON results (game_type, score DESC);
	`)
	return err
}

// CreateSession inserts a new session.
func (s *Store) CreateSession(code, gameType string) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (code, game_type, status) VALUES (?, ?, 'active')",
		code, gameType,
	)
	return err
}

// UpdateSessionStatus changes a session's status.
func (s *Store) UpdateSessionStatus(code, status string) error {
	_, err := s.db.Exec("UPDATE sessions SET status = ? WHERE code = ?", status, code)
	return err
}

// UpdateSessionGame records a game switch.
func (s *Store) UpdateSessionGame(code, gameType string) error {
	_, err := s.db.Exec("UPDATE sessions SET game_type = ?, status = 'active' WHERE code = ?", gameType, code)
	return err
}

// ListSessions returns all sessions with the given status (or all if status is empty).
func (s *Store) ListSessions(status string) ([]SessionRow, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = s.db.Query("SELECT code, game_type, status, created_at FROM sessions ORDER BY created_at DESC")
	} else {
		rows, err = s.db.Query("SELECT code, game_type, status, created_at FROM sessions WHERE status = ? ORDER BY created_at DESC", status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []SessionRow
	for rows.Next() {
		var sr SessionRow
		if err := rows.Scan(&sr.Code, &sr.GameType, &sr.Status, &sr.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sr)
	}
	return result, rows.Err()
}

// DeleteSession removes a session. Its results are kept.
func (s *Store) DeleteSession(code string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE code = ?", code)
	return err
}

// RecordResult stores a finished game and returns its id.
func (s *Store) RecordResult(r ResultRow) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		"INSERT INTO results (id, session_code, game_type, status, winner, score) VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.SessionCode, r.GameType, r.Status, r.Winner, r.Score,
	)
	if err != nil {
		return "", fmt.Errorf("record result: %w", err)
	}
	return r.ID, nil
}

// ListResults returns up to limit results, best score first, then newest.
// An empty gameType lists every game.
func (s *Store) ListResults(gameType string, limit int) ([]ResultRow, error) {
	if limit <= 0 {
		limit = 20
	}
	const cols = "SELECT id, session_code, game_type, status, winner, score, finished_at FROM results"
	var rows *sql.Rows
	var err error
	if gameType == "" {
		rows, err = s.db.Query(cols+" ORDER BY score DESC, finished_at DESC, rowid DESC LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(cols+" WHERE game_type = ? ORDER BY score DESC, finished_at DESC, rowid DESC LIMIT ?", gameType, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []ResultRow{}
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.ID, &r.SessionCode, &r.GameType, &r.Status, &r.Winner, &r.Score, &r.FinishedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
