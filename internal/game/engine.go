// internal/game/engine.go
//
// Orchestration for the round lifecycle: admission, word selection, guess
// scoring, and persistence. The engine owns consistency across concurrent
// requests: one writer at a time per round, and one StartRound at a time
// per player. Word selection, identity lookups, and storage live behind
// the collaborator interfaces below.

package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RoundStore persists rounds together with their guess history.
// Save must be atomic over the round and its appended guess records, and
// must fail with ErrConflict when the round's version is stale.
// FindByID fails with ErrRoundNotFound for unknown ids; FindOpenRound
// returns (nil, nil) when the player has no open round.
type RoundStore interface {
	Save(ctx context.Context, r *Round) error
	FindByID(ctx context.Context, id string) (*Round, error)
	CountStartedBetween(ctx context.Context, playerID string, start, end time.Time) (int, error)
	FindOpenRound(ctx context.Context, playerID string) (*Round, error)
	FindHistory(ctx context.Context, playerID string) ([]*Round, error)
}

// WordSource supplies secret target words.
type WordSource interface {
	// NextRandomWord fails with ErrNoWordsAvailable when the pool is empty.
	NextRandomWord(ctx context.Context) (string, error)
}

// PlayerDirectory resolves an external identity (username) to a player id.
type PlayerDirectory interface {
	// ResolvePlayer fails with ErrUnknownPlayer for unknown identities.
	ResolvePlayer(ctx context.Context, identity string) (string, error)
}

// Engine composes the evaluator, state machine, and admission guard with
// the external collaborators.
type Engine struct {
	rounds  RoundStore
	words   WordSource
	players PlayerDirectory
	guard   AdmissionGuard

	roundLocks  *keyedLocks
	playerLocks *keyedLocks

	now   func() time.Time
	newID func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the engine's time source.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithIDGenerator replaces the round/guess id generator.
func WithIDGenerator(newID func() string) Option { return func(e *Engine) { e.newID = newID } }

// NewEngine wires an engine. Time and id generation default to real
// values; tests override them via the options.
func NewEngine(rounds RoundStore, words WordSource, players PlayerDirectory, guard AdmissionGuard, opts ...Option) *Engine {
	e := &Engine{
		rounds:      rounds,
		words:       words,
		players:     players,
		guard:       guard,
		roundLocks:  newKeyedLocks(),
		playerLocks: newKeyedLocks(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GuessResult is the outcome of one submitted guess, including the
// derived view fields clients render. TargetWord is set only once the
// round has ended.
type GuessResult struct {
	Record       GuessRecord
	RoundStatus  Status
	Message      string
	RoundOver    bool
	AttemptsLeft int
	TargetWord   string
}

// RoundSummary is one completed round in a player's history. The target
// is revealed because the round is over.
type RoundSummary struct {
	ID         string     `json:"id"`
	TargetWord string     `json:"targetWord"`
	Guesses    []string   `json:"guesses"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"startTime"`
	EndedAt    *time.Time `json:"endTime"`
}

// PlayerStatus answers "can I play right now, and where did I leave off".
type PlayerStatus struct {
	DailyLimitReached bool   `json:"dailyLimitReached"`
	HasOpenRound      bool   `json:"hasOpenRound"`
	OpenRoundID       string `json:"openRoundId,omitempty"`
}

// ResolvePlayer maps an identity to a player id via the directory.
func (e *Engine) ResolvePlayer(ctx context.Context, identity string) (string, error) {
	return e.players.ResolvePlayer(ctx, identity)
}

// StartRound admits, creates, and persists a new OPEN round for playerID.
// The admission check and the creation run as one critical section per
// player, so a double-submitted start cannot exceed the daily limit or
// leave two rounds open.
func (e *Engine) StartRound(ctx context.Context, playerID string) (*Round, error) {
	e.playerLocks.lock(playerID)
	defer e.playerLocks.unlock(playerID)

	now := e.now()
	dayStart, dayEnd := DayBounds(now)
	started, err := e.rounds.CountStartedBetween(ctx, playerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if !e.guard.CanStart(playerID, started) {
		return nil, ErrDailyLimit
	}
	open, err := e.rounds.FindOpenRound(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrRoundAlreadyOpen
	}

	target, err := e.words.NextRandomWord(ctx)
	if err != nil {
		return nil, err
	}

	r := NewRound(e.newID(), playerID, target, now)
	if err := e.rounds.Save(ctx, r); err != nil {
		return nil, err
	}
	log.Info().Str("roundId", r.ID).Str("playerId", playerID).Msg("round started")
	return r, nil
}

// SubmitGuess validates, scores, and persists one guess against an open
// round. Read, evaluate, append, and persist run inside the round's
// critical section; the persisted write covers the round and its new
// guess record as one unit.
func (e *Engine) SubmitGuess(ctx context.Context, playerID, roundID, guess string) (*GuessResult, error) {
	guess = strings.ToUpper(strings.TrimSpace(guess))
	if len(guess) != WordLength || !isUpperAlpha(guess) {
		return nil, ErrInvalidGuess
	}

	e.roundLocks.lock(roundID)
	defer e.roundLocks.unlock(roundID)

	r, err := e.rounds.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if r.PlayerID != playerID {
		return nil, ErrNotRoundOwner
	}

	rec, err := r.Apply(e.newID(), guess, e.now())
	if err != nil {
		return nil, err
	}
	if err := e.rounds.Save(ctx, r); err != nil {
		return nil, err
	}

	res := &GuessResult{
		Record:       rec,
		RoundStatus:  r.Status(),
		Message:      roundMessage(r),
		RoundOver:    r.EndedAt != nil,
		AttemptsLeft: r.AttemptsRemaining(),
	}
	if res.RoundOver {
		res.TargetWord = r.Target
	}
	return res, nil
}

// Guesses returns the ordered guess history of a round.
func (e *Engine) Guesses(ctx context.Context, playerID, roundID string) ([]GuessRecord, error) {
	r, err := e.rounds.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if r.PlayerID != playerID {
		return nil, ErrNotRoundOwner
	}
	out := make([]GuessRecord, len(r.History))
	copy(out, r.History)
	return out, nil
}

// History returns the player's completed rounds, most recent first, with
// targets revealed. Rounds still open are omitted entirely so their
// targets never leave the engine.
func (e *Engine) History(ctx context.Context, playerID string) ([]RoundSummary, error) {
	rounds, err := e.rounds.FindHistory(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]RoundSummary, 0, len(rounds))
	for _, r := range rounds {
		if r.EndedAt == nil {
			continue
		}
		words := make([]string, 0, len(r.History))
		for _, g := range r.History {
			words = append(words, g.Word)
		}
		out = append(out, RoundSummary{
			ID:         r.ID,
			TargetWord: r.Target,
			Guesses:    words,
			Status:     r.Status(),
			StartedAt:  r.StartedAt,
			EndedAt:    r.EndedAt,
		})
	}
	return out, nil
}

// Status reports daily-limit and open-round state for a player.
func (e *Engine) Status(ctx context.Context, playerID string) (PlayerStatus, error) {
	dayStart, dayEnd := DayBounds(e.now())
	started, err := e.rounds.CountStartedBetween(ctx, playerID, dayStart, dayEnd)
	if err != nil {
		return PlayerStatus{}, err
	}
	open, err := e.rounds.FindOpenRound(ctx, playerID)
	if err != nil {
		return PlayerStatus{}, err
	}
	st := PlayerStatus{DailyLimitReached: !e.guard.CanStart(playerID, started)}
	if open != nil {
		st.HasOpenRound = true
		st.OpenRoundID = open.ID
	}
	return st, nil
}

// roundMessage renders the player-facing status line for a round.
func roundMessage(r *Round) string {
	switch r.Status() {
	case StatusWon:
		return "Congratulations! You guessed the word correctly!"
	case StatusLost:
		return fmt.Sprintf("Better luck next time! The word was: %s", r.Target)
	default:
		return fmt.Sprintf("Keep guessing! %d attempts left.", r.AttemptsRemaining())
	}
}
