package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Registers the pure-Go "sqlite" driver.
	_ "github.com/glebarez/go-sqlite"

	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/summary"
	"github.com/okian/rinkstats/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
    game_id     TEXT PRIMARY KEY,
    season      TEXT NOT NULL,
    game_type   TEXT NOT NULL,
    away        TEXT NOT NULL,
    home        TEXT NOT NULL,
    away_score  INTEGER NOT NULL,
    home_score  INTEGER NOT NULL,
    winner      TEXT NOT NULL DEFAULT '',
    computed_at TEXT NOT NULL,
    report      TEXT NOT NULL
);`

const upsert = `
INSERT INTO games (game_id, season, game_type, away, home, away_score, home_score, winner, computed_at, report)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(game_id) DO UPDATE SET
    season = excluded.season,
    game_type = excluded.game_type,
    away = excluded.away,
    home = excluded.home,
    away_score = excluded.away_score,
    home_score = excluded.home_score,
    winner = excluded.winner,
    computed_at = excluded.computed_at,
    report = excluded.report;`

// SQLiteStore persists reports as JSON in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	const op = "repository.open_sqlite"
	cfg := sqliteConfig{maxOpenConns: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns)

	if cfg.busyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout.Milliseconds())
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: create schema: %w", op, err)
	}

	s := &SQLiteStore{db: db}
	metrics.UpdateStoreGames(s.Count(ctx))
	return s, nil
}

// Put implements Store.Put.
func (s *SQLiteStore) Put(ctx context.Context, r *gamestats.Report) error {
	const op = "repository.put"
	if err := validate(r); err != nil {
		return err
	}
	start := time.Now()
	defer func() { metrics.RecordStoreWrite(time.Since(start)) }()

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%s: game %s: %w", op, r.GameID, err)
	}
	e := entryOf(r)
	_, err = s.db.ExecContext(ctx, upsert,
		e.GameID, e.Season, string(e.Type), e.Away, e.Home,
		e.Score[0], e.Score[1], e.Winner,
		e.ComputedAt.UTC().Format(time.RFC3339Nano), string(body),
	)
	if err != nil {
		return fmt.Errorf("%s: game %s: %w", op, r.GameID, err)
	}
	metrics.UpdateStoreGames(s.Count(ctx))
	return nil
}

// Get implements Store.Get. The returned report carries no in-memory
// timeline or counters.
func (s *SQLiteStore) Get(ctx context.Context, gameID string) (*gamestats.Report, error) {
	const op = "repository.get"
	start := time.Now()
	defer func() { metrics.RecordStoreRead(time.Since(start)) }()

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM games WHERE game_id = ?`, gameID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: game %s: %w", op, gameID, err)
	}

	var r gamestats.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("%s: game %s: decode: %w", op, gameID, err)
	}
	return &r, nil
}

// List implements Store.List.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	const op = "repository.list"
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	q := `SELECT game_id, season, game_type, away, home, away_score, home_score, winner, computed_at
FROM games ORDER BY game_id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			gameType string
			computed string
		)
		if err := rows.Scan(&e.GameID, &e.Season, &gameType, &e.Away, &e.Home,
			&e.Score[0], &e.Score[1], &e.Winner, &computed); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.Type = summary.GameType(gameType)
		if e.ComputedAt, err = time.Parse(time.RFC3339Nano, computed); err != nil {
			return nil, fmt.Errorf("%s: game %s: %w", op, e.GameID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Count implements Store.Count. It returns 0 when the database is unreadable.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		metrics.RecordErrorByComponent("repository", "count")
		return 0
	}
	return n
}

// Close implements Store.Close.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
