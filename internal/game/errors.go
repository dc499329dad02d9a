// internal/game/errors.go
//
// Coded errors surfaced by the game engine.
// Every client-facing failure carries a stable machine-readable code and
// a human-readable message; the HTTP layer maps codes to status codes.

package game

// Error is a game failure with a stable code for clients.
type Error struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Is matches two *Error values by code, so errors.Is works on the
// sentinels below even after an error crosses a package boundary.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	// Validation — rejected before touching round state.
	ErrInvalidGuess = &Error{Code: "INVALID_GUESS", Message: "guess must be exactly 5 letters"}

	// Not found.
	ErrRoundNotFound = &Error{Code: "ROUND_NOT_FOUND", Message: "round not found"}
	ErrUnknownPlayer = &Error{Code: "UNKNOWN_PLAYER", Message: "player not found"}

	// Policy — rejected with no state mutation.
	ErrDailyLimit        = &Error{Code: "DAILY_LIMIT_REACHED", Message: "daily round limit reached"}
	ErrRoundAlreadyOpen  = &Error{Code: "ROUND_ALREADY_OPEN", Message: "an open round already exists, finish it first"}
	ErrRoundClosed       = &Error{Code: "ROUND_CLOSED", Message: "round already ended"}
	ErrAttemptsExhausted = &Error{Code: "ATTEMPTS_EXHAUSTED", Message: "maximum guesses reached"}
	ErrNotRoundOwner     = &Error{Code: "NOT_ROUND_OWNER", Message: "round belongs to another player"}

	// Concurrency — caller should retry.
	ErrConflict = &Error{Code: "CONFLICT", Message: "round was modified concurrently"}

	// Dependencies.
	ErrNoWordsAvailable = &Error{Code: "NO_WORDS_AVAILABLE", Message: "word pool is empty"}
)
