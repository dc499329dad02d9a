// internal/store/sqlite.go
//
// SQLite-backed RoundStore. One round maps to a row in games plus its
// rows in guesses; Save writes both inside a single transaction with a
// version compare-and-swap on the games row, so a lost race surfaces as
// game.ErrConflict instead of a partial write.
//
// Timestamps persist as UTC RFC3339 strings, which keeps range queries
// and ORDER BY lexicographic.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/wordgame/go-server/internal/game"
)

// SQLite implements game.RoundStore over a *sql.DB opened with the
// sqlite3 driver.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open database handle. Schema comes from the
// sql/ migrations applied at boot.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Save inserts a new round (version 0) or updates an existing one with a
// WHERE version=? guard, then appends any guess records not yet
// persisted. Commit is all-or-nothing across both tables.
func (s *SQLite) Save(ctx context.Context, r *game.Round) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if r.Version == 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO games (id, player_id, target, started_at, ended_at, attempts, won, version)
			VALUES (?,?,?,?,?,?,?,1)`,
			r.ID, r.PlayerID, r.Target, fmtTime(r.StartedAt), fmtTimePtr(r.EndedAt), r.Attempts, boolInt(r.Won))
		if err != nil {
			if isConstraintErr(err) {
				return game.ErrConflict
			}
			return fmt.Errorf("insert game %s: %w", r.ID, err)
		}
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE games SET ended_at=?, attempts=?, won=?, version=version+1
			WHERE id=? AND version=?`,
			fmtTimePtr(r.EndedAt), r.Attempts, boolInt(r.Won), r.ID, r.Version)
		if err != nil {
			return fmt.Errorf("update game %s: %w", r.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return game.ErrConflict
		}
	}

	var have int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM guesses WHERE game_id=?`, r.ID).Scan(&have); err != nil {
		return err
	}
	if have > len(r.History) {
		// More guess rows on disk than the caller knows about: a
		// concurrent writer got there first.
		return game.ErrConflict
	}
	for _, g := range r.History[have:] {
		eval, err := json.Marshal(g.Evaluation)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guesses (id, game_id, guess_number, word, evaluation, submitted_at)
			VALUES (?,?,?,?,?,?)`,
			g.ID, r.ID, g.GuessNumber, g.Word, string(eval), fmtTime(g.SubmittedAt)); err != nil {
			if isConstraintErr(err) {
				return game.ErrConflict
			}
			return fmt.Errorf("insert guess %d for game %s: %w", g.GuessNumber, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.Version++
	return nil
}

const roundColumns = `id, player_id, target, started_at, ended_at, attempts, won, version`

// FindByID loads a round and its ordered guess history.
func (s *SQLite) FindByID(ctx context.Context, id string) (*game.Round, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roundColumns+` FROM games WHERE id=?`, id)
	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadGuesses(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CountStartedBetween counts a player's rounds started in [start, end).
func (s *SQLite) CountStartedBetween(ctx context.Context, playerID string, start, end time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM games
		WHERE player_id=? AND started_at>=? AND started_at<?`,
		playerID, fmtTime(start), fmtTime(end)).Scan(&n)
	return n, err
}

// FindOpenRound returns the player's round without an ended_at, if any.
func (s *SQLite) FindOpenRound(ctx context.Context, playerID string) (*game.Round, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+roundColumns+` FROM games
		WHERE player_id=? AND ended_at IS NULL LIMIT 1`, playerID)
	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadGuesses(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// FindHistory returns all of the player's rounds, most recent first,
// each with its guess history attached.
func (s *SQLite) FindHistory(ctx context.Context, playerID string) ([]*game.Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+roundColumns+` FROM games
		WHERE player_id=? ORDER BY started_at DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*game.Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, r := range out {
		if err := s.loadGuesses(ctx, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// loadGuesses fills r.History in guess-number order.
func (s *SQLite) loadGuesses(ctx context.Context, r *game.Round) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guess_number, word, evaluation, submitted_at
		FROM guesses WHERE game_id=? ORDER BY guess_number ASC`, r.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	r.History = []game.GuessRecord{}
	for rows.Next() {
		var g game.GuessRecord
		var eval, submitted string
		if err := rows.Scan(&g.ID, &g.GuessNumber, &g.Word, &eval, &submitted); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(eval), &g.Evaluation); err != nil {
			return fmt.Errorf("decode evaluation for guess %s: %w", g.ID, err)
		}
		g.SubmittedAt, err = parseTime(submitted)
		if err != nil {
			return fmt.Errorf("guess %s: bad submitted_at: %w", g.ID, err)
		}
		r.History = append(r.History, g)
	}
	return rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRound(row scanner) (*game.Round, error) {
	var r game.Round
	var started string
	var ended sql.NullString
	var won int
	err := row.Scan(&r.ID, &r.PlayerID, &r.Target, &started, &ended, &r.Attempts, &won, &r.Version)
	if err != nil {
		return nil, err
	}
	r.StartedAt, err = parseTime(started)
	if err != nil {
		return nil, fmt.Errorf("game %s: bad started_at: %w", r.ID, err)
	}
	if ended.Valid {
		t, err := parseTime(ended.String)
		if err != nil {
			return nil, fmt.Errorf("game %s: bad ended_at: %w", r.ID, err)
		}
		r.EndedAt = &t
	}
	r.Won = won != 0
	return &r, nil
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isConstraintErr(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}
