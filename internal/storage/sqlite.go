// Package storage provides SQLite-based persistence for runs and scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-danmaku/internal/replay"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	StageID   string
	Score     int
	CreatedAt time.Time
}

// Run is a finished simulation run together with its encoded replay.
type Run struct {
	ID          string // recording run ID
	StageID     string
	Seed        int64
	Ticks       uint64
	Kills       int
	Life        int32
	Cleared     bool
	GameOver    bool
	Score       int
	Fingerprint uint64
	Replay      []byte // msgpack recording, may be empty
	CreatedAt   time.Time
}

// Recording decodes the stored replay.
func (r Run) Recording() (*replay.Recording, error) {
	if len(r.Replay) == 0 {
		return nil, fmt.Errorf("storage: run %s has no replay", r.ID)
	}
	return replay.Unmarshal(r.Replay)
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
			stage_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_stage_id ON scores(stage_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(stage_id, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			stage_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			life INTEGER NOT NULL DEFAULT 0,
			cleared INTEGER NOT NULL DEFAULT 0,
			game_over INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			fingerprint TEXT NOT NULL,
			replay BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_stage_id ON runs(stage_id);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
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

// parseTime accepts what the driver hands back for DATETIME columns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a new score for the given stage.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(stageID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (stage_id, score) VALUES (?, ?)",
		stageID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given stage.
// Results are ordered by score descending.
func (s *Store) TopScores(stageID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, stage_id, score, created_at
		 FROM scores
		 WHERE stage_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		stageID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.StageID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given stage.
// Returns 0 if no scores exist.
func (s *Store) HighScore(stageID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE stage_id = ?",
		stageID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores and runs for the given stage.
func (s *Store) ClearScores(stageID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE stage_id = ?", stageID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE stage_id = ?", stageID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveRun stores a run and its score in one transaction.
func (s *Store) SaveRun(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs
		 (id, stage_id, seed, ticks, kills, life, cleared, game_over, score, fingerprint, replay)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StageID,
		run.Seed,
		int64(run.Ticks),
		run.Kills,
		run.Life,
		run.Cleared,
		run.GameOver,
		run.Score,
		strconv.FormatUint(run.Fingerprint, 16),
		run.Replay,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO scores (stage_id, score) VALUES (?, ?)", run.StageID, run.Score); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return nil
}

// SaveRecording stores a finished recording as a run.
func (s *Store) SaveRecording(rec *replay.Recording, score int) (Run, error) {
	data, err := replay.Marshal(rec)
	if err != nil {
		return Run{}, err
	}
	run := Run{
		ID:          rec.RunID,
		StageID:     rec.Setup.Stage,
		Seed:        rec.Setup.Seed,
		Ticks:       rec.Final.Ticks,
		Kills:       rec.Final.Kills,
		Life:        rec.Final.PlayerLife,
		Cleared:     rec.Final.Cleared,
		GameOver:    rec.Final.GameOver,
		Score:       score,
		Fingerprint: rec.Final.Fingerprint,
		Replay:      data,
	}
	return run, s.SaveRun(run)
}

const runColumns = `id, stage_id, seed, ticks, kills, life, cleared, game_over, score, fingerprint, replay, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r         Run
		ticks     int64
		fp        string
		createdAt any
	)
	err := row.Scan(
		&r.ID,
		&r.StageID,
		&r.Seed,
		&ticks,
		&r.Kills,
		&r.Life,
		&r.Cleared,
		&r.GameOver,
		&r.Score,
		&fp,
		&r.Replay,
		&createdAt,
	)
	if err != nil {
		return r, err
	}
	r.Ticks = uint64(ticks)
	r.Fingerprint, err = strconv.ParseUint(fp, 16, 64)
	if err != nil {
		return r, fmt.Errorf("storage: bad fingerprint %q: %w", fp, err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// RunByID retrieves a run by its recording ID. It returns nil when no such
// run exists.
func (s *Store) RunByID(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs, optionally for one stage.
func (s *Store) RecentRuns(stageID string, limit int) ([]Run, error) {
	return s.queryRuns(stageID, "created_at DESC, rowid DESC", limit)
}

// TopRuns retrieves the best-scoring runs, optionally for one stage.
func (s *Store) TopRuns(stageID string, limit int) ([]Run, error) {
	return s.queryRuns(stageID, "score DESC, ticks ASC, rowid ASC", limit)
}

func (s *Store) queryRuns(stageID, order string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if stageID != "" {
		query += ` WHERE stage_id = ?`
		args = append(args, stageID)
	}
	query += ` ORDER BY ` + order + ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// StageStats contains aggregated statistics for a stage.
type StageStats struct {
	StageID    string
	RunsCount  int
	Clears     int
	HighScore  int
	AvgScore   float64
	TotalKills int64
	LastPlayed time.Time
}

// GetStageStats retrieves aggregated statistics for a specific stage.
func (s *Store) GetStageStats(stageID string) (*StageStats, error) {
	stats := &StageStats{StageID: stageID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(cleared), 0), COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0), COALESCE(SUM(kills), 0), MAX(created_at)
		 FROM runs WHERE stage_id = ?`,
		stageID,
	).Scan(&stats.RunsCount, &stats.Clears, &stats.HighScore, &stats.AvgScore, &stats.TotalKills, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stage stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllStageStats retrieves statistics for every stage with recorded runs.
func (s *Store) GetAllStageStats() (map[string]*StageStats, error) {
	rows, err := s.db.Query(
		`SELECT stage_id, COUNT(*), SUM(cleared), MAX(score), AVG(score), SUM(kills), MAX(created_at)
		 FROM runs
		 GROUP BY stage_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stage stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*StageStats)
	for rows.Next() {
		var st StageStats
		var lastPlayed any
		if err := rows.Scan(&st.StageID, &st.RunsCount, &st.Clears, &st.HighScore, &st.AvgScore, &st.TotalKills, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.StageID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
