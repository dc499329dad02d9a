// internal/report/report.go
//
// Read-only reporting aggregates for the admin surface: per-day wins and
// unique players, per-player per-day counts, and a per-player activity
// summary grouped by date. Pure queries over the games table.

package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/wordgame/go-server/internal/game"
)

// Service answers admin reporting queries.
type Service struct {
	db *sql.DB
}

// NewService wraps an open database handle.
func NewService(db *sql.DB) *Service { return &Service{db: db} }

// DaySummary aggregates one calendar day across all players.
type DaySummary struct {
	Date          string `json:"date"`
	Wins          int    `json:"wins"`
	UniquePlayers int    `json:"uniquePlayers"`
}

// PlayerDaySummary aggregates one calendar day for one player.
type PlayerDaySummary struct {
	Date        string `json:"date"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
}

// ActivityRow is one date in a player's activity summary.
type ActivityRow struct {
	Date           string `json:"date"`
	WordsTried     int    `json:"numberOfWordsTried"`
	CorrectGuesses int    `json:"numberOfCorrectGuesses"`
}

// Day reports wins and distinct players for the local calendar day
// containing date.
func (s *Service) Day(ctx context.Context, date time.Time) (DaySummary, error) {
	start, end := game.DayBounds(date)
	out := DaySummary{Date: date.Format("2006-01-02")}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(CASE WHEN won=1 THEN 1 END), COUNT(DISTINCT player_id)
		FROM games WHERE started_at>=? AND started_at<?`,
		rfc3339(start), rfc3339(end)).Scan(&out.Wins, &out.UniquePlayers)
	return out, err
}

// PlayerDay reports games started and won by one player on one day.
func (s *Service) PlayerDay(ctx context.Context, playerID string, date time.Time) (PlayerDaySummary, error) {
	start, end := game.DayBounds(date)
	out := PlayerDaySummary{Date: date.Format("2006-01-02")}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1), COUNT(CASE WHEN won=1 THEN 1 END)
		FROM games WHERE player_id=? AND started_at>=? AND started_at<?`,
		playerID, rfc3339(start), rfc3339(end)).Scan(&out.GamesPlayed, &out.Wins)
	return out, err
}

// PlayerActivity groups a player's rounds by local start date, counting
// rounds tried and rounds won per date, most recent date first.
//
// Timestamps are stored in UTC, so grouping happens in Go after
// converting each start time to the server's local day. Rows arrive
// ordered by started_at descending, which keeps local dates in
// descending order too.
func (s *Service) PlayerActivity(ctx context.Context, playerID string) ([]ActivityRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT started_at, won FROM games
		WHERE player_id=? ORDER BY started_at DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ActivityRow{}
	for rows.Next() {
		var started string
		var won int
		if err := rows.Scan(&started, &won); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, started)
		if err != nil {
			return nil, err
		}
		day := t.Local().Format("2006-01-02")
		if len(out) == 0 || out[len(out)-1].Date != day {
			out = append(out, ActivityRow{Date: day})
		}
		row := &out[len(out)-1]
		row.WordsTried++
		if won != 0 {
			row.CorrectGuesses++
		}
	}
	return out, rows.Err()
}

func rfc3339(t time.Time) string { return t.UTC().Format(time.RFC3339) }
