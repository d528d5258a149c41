// Package storage provides SQLite-based persistence for snake high scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Scores are grouped into boards by grid size ("20x15"), since a score on
// a small grid is not comparable to one on a large grid.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultLimit is the size of a leaderboard view.
const DefaultLimit = 10

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreRecord is a finished session as reported by the platform.
type ScoreRecord struct {
	SessionID string // generated when empty
	GameID    string // variant, e.g. "snake" or "snake_wrap"
	GridKey   string // board key, e.g. "20x15"
	Score     int
	Length    int
	Moves     int
	Seed      uint64
	Outcome   string
}

// ScoreEntry represents a single stored high score.
type ScoreEntry struct {
	ID        int64
	SessionID string
	GameID    string
	GridKey   string
	Score     int
	Length    int
	Moves     int
	Seed      uint64
	Outcome   string
	CreatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			grid_key TEXT NOT NULL,
			score INTEGER NOT NULL,
			length INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			seed TEXT NOT NULL DEFAULT '0',
			outcome TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_grid_key ON scores(grid_key);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(grid_key, score DESC);
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

// SaveScore records a finished session and returns its session id.
func (s *Store) SaveScore(rec ScoreRecord) (string, error) {
	if rec.GridKey == "" {
		return "", errors.New("storage: cannot save score: missing grid key")
	}
	if rec.Score < 0 {
		return "", fmt.Errorf("storage: cannot save score: negative score %d", rec.Score)
	}
	if rec.SessionID == "" {
		rec.SessionID = uuid.New().String()
	}

	_, err := s.db.Exec(
		`INSERT INTO scores (session_id, game_id, grid_key, score, length, moves, seed, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.GameID, rec.GridKey, rec.Score, rec.Length, rec.Moves,
		strconv.FormatUint(rec.Seed, 10), rec.Outcome,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save score: %w", err)
	}
	return rec.SessionID, nil
}

const entryColumns = `id, session_id, game_id, grid_key, score, length, moves, seed, outcome, created_at`

// TopScores retrieves the top N scores for the given board.
// Results are ordered by score descending, earlier sessions first on ties.
func (s *Store) TopScores(gridKey string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT `+entryColumns+`
		 FROM scores
		 WHERE grid_key = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gridKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanEntries(rows)
}

// ScoreBySession looks up one stored session. It returns nil when unknown.
func (s *Store) ScoreBySession(sessionID string) (*ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryColumns+` FROM scores WHERE session_id = ?`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// HighScore returns the highest score for the given board.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gridKey string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE grid_key = ?",
		gridKey,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// IsHighScore reports whether score would beat the board's best.
// Ties do not count, and any score is a high score on an empty board.
func (s *Store) IsHighScore(gridKey string, score int) (bool, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE grid_key = ?",
		gridKey,
	).Scan(&best)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !best.Valid {
		return true, nil
	}
	return int64(score) > best.Int64, nil
}

// ClearScores deletes all scores for the given board.
func (s *Store) ClearScores(gridKey string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE grid_key = ?", gridKey)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// BoardStats contains aggregated statistics for a board.
type BoardStats struct {
	GridKey    string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetBoardStats retrieves aggregated statistics for a specific board.
func (s *Store) GetBoardStats(gridKey string) (*BoardStats, error) {
	stats := &BoardStats{GridKey: gridKey}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE grid_key = ?`,
		gridKey,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllBoardStats retrieves statistics for every board that has scores.
func (s *Store) GetAllBoardStats() (map[string]*BoardStats, error) {
	rows, err := s.db.Query(
		`SELECT grid_key, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY grid_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all board stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BoardStats)
	for rows.Next() {
		var b BoardStats
		var lastPlayed any
		if err := rows.Scan(&b.GridKey, &b.GamesCount, &b.HighScore, &b.AvgScore, &b.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		b.LastPlayed = parseTime(lastPlayed)
		stats[b.GridKey] = &b
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func scanEntries(rows *sql.Rows) ([]ScoreEntry, error) {
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var seed string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.GameID, &e.GridKey, &e.Score,
			&e.Length, &e.Moves, &seed, &e.Outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		// Seeds are stored as decimal text since they may exceed int64.
		e.Seed, _ = strconv.ParseUint(seed, 10, 64)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
