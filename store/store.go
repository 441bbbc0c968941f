// Package store persists extracted schedules and rosters in SQLite.
//
// Each save replaces what was stored for the same team (or roster pool), so
// re-running the tool on the same day leaves one copy of every record.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kiefholz/ligaplan/model"
)

// DB is a handle to the schedule database.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; teams are saved from several goroutines
	db.SetMaxOpenConns(1)

	s := &DB{db: db, now: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// init creates the schema
func (s *DB) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			team TEXT NOT NULL,
			seq INTEGER NOT NULL,
			match_date TEXT NOT NULL,
			match_time TEXT NOT NULL,
			venue TEXT NOT NULL,
			home TEXT NOT NULL,
			guest TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			PRIMARY KEY (team, seq)
		);

		CREATE TABLE IF NOT EXISTS players (
			pool TEXT NOT NULL,
			seq INTEGER NOT NULL,
			single_rank TEXT NOT NULL,
			double_rank TEXT NOT NULL,
			team TEXT NOT NULL,
			name TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			PRIMARY KEY (pool, seq)
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// SaveMatches replaces the stored schedule of team with records.
func (s *DB) SaveMatches(ctx context.Context, team string, records []model.MatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE team = ?`, team); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches (team, seq, match_date, match_time, venue, home, guest, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	savedAt := s.now().UTC().Format(time.RFC3339)
	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, team, i, r.Date, r.Time, r.Venue, r.Home, r.Guest, savedAt); err != nil {
			return fmt.Errorf("failed to insert match %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Matches returns the stored schedule of team in its original order.
func (s *DB) Matches(ctx context.Context, team string) ([]model.MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT match_date, match_time, venue, home, guest
		FROM matches WHERE team = ? ORDER BY seq
	`, team)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var r model.MatchRecord
		if err := rows.Scan(&r.Date, &r.Time, &r.Venue, &r.Home, &r.Guest); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Teams returns the teams with a stored schedule.
func (s *DB) Teams(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT team FROM matches ORDER BY team`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []string
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// SavePlayers replaces the stored roster of pool with players.
func (s *DB) SavePlayers(ctx context.Context, pool string, players []model.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE pool = ?`, pool); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	savedAt := s.now().UTC().Format(time.RFC3339)
	for i, p := range players {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO players (pool, seq, single_rank, double_rank, team, name, saved_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, pool, i, p.Single, p.Double, p.Team, p.Name, savedAt)
		if err != nil {
			return fmt.Errorf("failed to insert player %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Players returns the stored roster of pool in its original order.
func (s *DB) Players(ctx context.Context, pool string) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT single_rank, double_rank, team, name
		FROM players WHERE pool = ? ORDER BY seq
	`, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.Single, &p.Double, &p.Team, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
