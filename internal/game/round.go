// internal/game/round.go
//
// State for a single round and its guess-driven state machine.
// A round is OPEN until either a guess matches the target (WON) or the
// attempt limit is reached without a match (LOST). Terminal states accept
// no further guesses.

package game

import "time"

const (
	// WordLength is the fixed word size, uppercase A-Z.
	WordLength = 5
	// MaxAttempts is the guess limit per round.
	MaxAttempts = 5
)

// Status is the coarse state of a round.
type Status string

const (
	StatusOpen Status = "IN_PROGRESS"
	StatusWon  Status = "WON"
	StatusLost Status = "LOST"
)

// GuessRecord is one scored guess. GuessNumber is 1-based and matches the
// record's position in the round history.
type GuessRecord struct {
	ID          string    `json:"id"`
	GuessNumber int       `json:"guessNumber"`
	Word        string    `json:"guessWord"`
	Evaluation  []Outcome `json:"evaluation"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Round holds the full state of one round. The target stays secret until
// the round ends; JSON marshalling never includes it.
//
// Invariants:
//   - Attempts == len(History), 0..MaxAttempts.
//   - EndedAt set ⇔ Won or Attempts == MaxAttempts.
//   - once EndedAt is set no guess may be appended.
type Round struct {
	ID        string        `json:"id"`
	PlayerID  string        `json:"playerId"`
	Target    string        `json:"-"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
	Attempts  int           `json:"attempts"`
	Won       bool          `json:"won"`
	History   []GuessRecord `json:"history"`

	// Version is bumped by the store on every successful save; stores
	// reject a save whose version does not match the persisted row.
	Version int64 `json:"-"`
}

// NewRound creates an OPEN round for a player with the given secret target.
func NewRound(id, playerID, target string, now time.Time) *Round {
	return &Round{
		ID:        id,
		PlayerID:  playerID,
		Target:    target,
		StartedAt: now,
		History:   []GuessRecord{},
	}
}

// Status projects the round state from EndedAt/Won.
func (r *Round) Status() Status {
	switch {
	case r.EndedAt == nil:
		return StatusOpen
	case r.Won:
		return StatusWon
	default:
		return StatusLost
	}
}

// AttemptsRemaining reports how many guesses are left.
func (r *Round) AttemptsRemaining() int { return MaxAttempts - r.Attempts }

// Apply scores one guess and advances the state machine.
// The guess must already be normalized (uppercase, validated format).
//
// Transitions:
//   - exact match → WON, regardless of remaining attempts.
//   - no match on the final attempt → LOST.
//   - otherwise the round stays OPEN.
func (r *Round) Apply(recordID, guess string, now time.Time) (GuessRecord, error) {
	if r.EndedAt != nil {
		return GuessRecord{}, ErrRoundClosed
	}
	// Unreachable while the EndedAt invariant holds; kept as a guard
	// against a corrupted row loaded from the store.
	if r.Attempts >= MaxAttempts {
		return GuessRecord{}, ErrAttemptsExhausted
	}

	eval, err := Evaluate(guess, r.Target)
	if err != nil {
		return GuessRecord{}, err
	}

	rec := GuessRecord{
		ID:          recordID,
		GuessNumber: r.Attempts + 1,
		Word:        guess,
		Evaluation:  eval,
		SubmittedAt: now,
	}
	r.History = append(r.History, rec)
	r.Attempts++

	if allExact(eval) {
		r.Won = true
		r.EndedAt = &now
	} else if r.Attempts >= MaxAttempts {
		r.EndedAt = &now
	}
	return rec, nil
}
