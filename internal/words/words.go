// internal/words/words.go
//
// SQLite-backed word pool for the game engine.
//
// Seeding:
//   1. If WORDS_FILE (config) points at a file, one word per line is
//      loaded from it.
//   2. Otherwise the embedded default list is used.
//
// Words are normalized to uppercase and must be exactly 5 ASCII letters;
// anything else on a line is skipped. Seeding is idempotent (INSERT OR
// IGNORE against the unique word column), so restarts never duplicate
// the pool.

package words

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wordgame/go-server/assets"
	"github.com/wordgame/go-server/internal/game"
)

// Pool draws random target words from the words table.
type Pool struct {
	db *sql.DB
}

// NewPool wraps an open database handle.
func NewPool(db *sql.DB) *Pool { return &Pool{db: db} }

// Seed fills the words table from path, or from the embedded default
// list when path is empty.
func (p *Pool) Seed(ctx context.Context, path string) error {
	var (
		lines []string
		err   error
	)
	if path != "" {
		lines, err = readWordFile(path)
	} else {
		lines, err = assets.DefaultWords()
	}
	if err != nil {
		return err
	}
	list := Normalize(lines)
	if len(list) == 0 {
		return errors.New("words: no valid words to seed")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, w := range list {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO words (word) VALUES (?)`, w); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	n, err := p.Count(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("seeded", len(list)).Int("pool", n).Msg("word pool ready")
	return nil
}

// NextRandomWord draws one word uniformly from the pool.
func (p *Pool) NextRandomWord(ctx context.Context) (string, error) {
	var w string
	err := p.db.QueryRowContext(ctx,
		`SELECT word FROM words ORDER BY RANDOM() LIMIT 1`).Scan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return "", game.ErrNoWordsAvailable
	}
	return w, err
}

// Count reports the pool size.
func (p *Pool) Count(ctx context.Context) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM words`).Scan(&n)
	return n, err
}

// readWordFile loads one word per line, skipping blanks and # comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// Normalize uppercases and keeps only valid 5-letter words.
func Normalize(lines []string) []string {
	var out []string
	for _, line := range lines {
		w := strings.ToUpper(strings.TrimSpace(line))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if len(w) == game.WordLength && isUpperAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
