package game_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wordgame/go-server/internal/game"
	"github.com/wordgame/go-server/internal/store"
)

type stubWords struct {
	word string
	err  error
}

func (s stubWords) NextRandomWord(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.word, nil
}

type stubPlayers map[string]string

func (s stubPlayers) ResolvePlayer(ctx context.Context, identity string) (string, error) {
	if id, ok := s[identity]; ok {
		return id, nil
	}
	return "", game.ErrUnknownPlayer
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, target string) (*game.Engine, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}
	seq := 0
	var mu sync.Mutex
	newID := func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	e := game.NewEngine(
		store.NewMemory(),
		stubWords{word: target},
		stubPlayers{"alice": "player-1"},
		game.NewAdmissionGuard(game.DefaultDailyLimit),
		game.WithClock(clock.Now),
		game.WithIDGenerator(newID),
	)
	return e, clock
}

// winRound plays the target word so the round ends immediately.
func winRound(t *testing.T, e *game.Engine, playerID, roundID, target string) {
	t.Helper()
	res, err := e.SubmitGuess(context.Background(), playerID, roundID, target)
	if err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if res.RoundStatus != game.StatusWon {
		t.Fatalf("expected won, got %s", res.RoundStatus)
	}
}

func TestStartRoundDailyLimit(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()

	for i := 0; i < game.DefaultDailyLimit; i++ {
		r, err := e.StartRound(ctx, "player-1")
		if err != nil {
			t.Fatalf("start %d: %v", i+1, err)
		}
		winRound(t, e, "player-1", r.ID, "CRANE")
	}

	if _, err := e.StartRound(ctx, "player-1"); !errors.Is(err, game.ErrDailyLimit) {
		t.Fatalf("expected ErrDailyLimit on 4th start, got %v", err)
	}

	// A different player is unaffected.
	if _, err := e.StartRound(ctx, "player-2"); err != nil {
		t.Fatalf("other player should be admitted: %v", err)
	}
}

func TestStartRoundLimitResetsNextDay(t *testing.T) {
	e, clock := newTestEngine(t, "CRANE")
	ctx := context.Background()

	for i := 0; i < game.DefaultDailyLimit; i++ {
		r, err := e.StartRound(ctx, "player-1")
		if err != nil {
			t.Fatalf("start %d: %v", i+1, err)
		}
		winRound(t, e, "player-1", r.ID, "CRANE")
	}
	if _, err := e.StartRound(ctx, "player-1"); !errors.Is(err, game.ErrDailyLimit) {
		t.Fatalf("expected ErrDailyLimit, got %v", err)
	}

	clock.Advance(24 * time.Hour)
	if _, err := e.StartRound(ctx, "player-1"); err != nil {
		t.Fatalf("limit should reset after midnight: %v", err)
	}
}

func TestStartRoundRejectsSecondOpenRound(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()

	if _, err := e.StartRound(ctx, "player-1"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := e.StartRound(ctx, "player-1"); !errors.Is(err, game.ErrRoundAlreadyOpen) {
		t.Fatalf("expected ErrRoundAlreadyOpen, got %v", err)
	}
}

func TestStartRoundEmptyWordPool(t *testing.T) {
	e := game.NewEngine(
		store.NewMemory(),
		stubWords{err: game.ErrNoWordsAvailable},
		stubPlayers{},
		game.NewAdmissionGuard(game.DefaultDailyLimit),
	)
	if _, err := e.StartRound(context.Background(), "player-1"); !errors.Is(err, game.ErrNoWordsAvailable) {
		t.Fatalf("expected ErrNoWordsAvailable, got %v", err)
	}
}

func TestSubmitGuessValidation(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()
	r, err := e.StartRound(ctx, "player-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, bad := range []string{"", "CAT", "TOOLONG", "CR4NE", "CR NE"} {
		if _, err := e.SubmitGuess(ctx, "player-1", r.ID, bad); !errors.Is(err, game.ErrInvalidGuess) {
			t.Fatalf("guess %q: expected ErrInvalidGuess, got %v", bad, err)
		}
	}

	// Lowercase input is normalized, not rejected.
	res, err := e.SubmitGuess(ctx, "player-1", r.ID, " crane ")
	if err != nil {
		t.Fatalf("normalized guess: %v", err)
	}
	if res.Record.Word != "CRANE" {
		t.Fatalf("expected uppercase record word, got %q", res.Record.Word)
	}
}

func TestSubmitGuessUnknownRound(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	if _, err := e.SubmitGuess(context.Background(), "player-1", "no-such-round", "CRANE"); !errors.Is(err, game.ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
}

func TestSubmitGuessOwnership(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()
	r, err := e.StartRound(ctx, "player-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.SubmitGuess(ctx, "player-2", r.ID, "CRANE"); !errors.Is(err, game.ErrNotRoundOwner) {
		t.Fatalf("expected ErrNotRoundOwner, got %v", err)
	}
}

func TestSubmitGuessLifecycle(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()
	r, err := e.StartRound(ctx, "player-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 1; i < game.MaxAttempts; i++ {
		res, err := e.SubmitGuess(ctx, "player-1", r.ID, "SPICE")
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if res.RoundStatus != game.StatusOpen {
			t.Fatalf("guess %d: expected open, got %s", i, res.RoundStatus)
		}
		if res.TargetWord != "" {
			t.Fatalf("guess %d leaked target %q on open round", i, res.TargetWord)
		}
		if res.AttemptsLeft != game.MaxAttempts-i {
			t.Fatalf("guess %d: expected %d attempts left, got %d", i, game.MaxAttempts-i, res.AttemptsLeft)
		}
	}

	res, err := e.SubmitGuess(ctx, "player-1", r.ID, "SPICE")
	if err != nil {
		t.Fatalf("final guess: %v", err)
	}
	if res.RoundStatus != game.StatusLost || !res.RoundOver {
		t.Fatalf("expected lost round, got %s over=%v", res.RoundStatus, res.RoundOver)
	}
	if res.TargetWord != "CRANE" {
		t.Fatalf("ended round must reveal target, got %q", res.TargetWord)
	}
	if !strings.Contains(res.Message, "CRANE") {
		t.Fatalf("loss message should name the word, got %q", res.Message)
	}

	if _, err := e.SubmitGuess(ctx, "player-1", r.ID, "SPICE"); !errors.Is(err, game.ErrRoundClosed) {
		t.Fatalf("expected ErrRoundClosed on 6th guess, got %v", err)
	}
}

func TestConcurrentGuessesNeverExceedLimit(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()
	r, err := e.StartRound(ctx, "player-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	const callers = 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.SubmitGuess(ctx, "player-1", r.ID, "SPICE")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, game.ErrRoundClosed) || errors.Is(err, game.ErrAttemptsExhausted):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if accepted != game.MaxAttempts {
		t.Fatalf("expected exactly %d accepted guesses, got %d", game.MaxAttempts, accepted)
	}

	guesses, err := e.Guesses(ctx, "player-1", r.ID)
	if err != nil {
		t.Fatalf("guesses: %v", err)
	}
	if len(guesses) != game.MaxAttempts {
		t.Fatalf("expected %d records, got %d", game.MaxAttempts, len(guesses))
	}
	seen := map[int]bool{}
	for _, g := range guesses {
		if seen[g.GuessNumber] {
			t.Fatalf("duplicate guess number %d", g.GuessNumber)
		}
		seen[g.GuessNumber] = true
	}
}

func TestConcurrentStartsNeverExceedLimit(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()

	// Double-clicked start: only one round may end up open.
	const callers = 10
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.StartRound(ctx, "player-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	started := 0
	for err := range errs {
		switch {
		case err == nil:
			started++
		case errors.Is(err, game.ErrRoundAlreadyOpen) || errors.Is(err, game.ErrDailyLimit):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if started != 1 {
		t.Fatalf("expected exactly one started round, got %d", started)
	}
}

func TestHistoryRevealsOnlyEndedRounds(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()

	r1, err := e.StartRound(ctx, "player-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	winRound(t, e, "player-1", r1.ID, "CRANE")

	r2, err := e.StartRound(ctx, "player-1")
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	history, err := e.History(ctx, "player-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected only the ended round in history, got %d entries", len(history))
	}
	if history[0].ID != r1.ID || history[0].TargetWord != "CRANE" {
		t.Fatalf("history entry %+v should be round %s with target revealed", history[0], r1.ID)
	}

	// The open round must not leak its target anywhere, including its
	// own JSON encoding.
	raw, err := json.Marshal(r2)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "CRANE") {
		t.Fatalf("open round JSON leaked the target: %s", raw)
	}
}

func TestPlayerStatus(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()

	st, err := e.Status(ctx, "player-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.DailyLimitReached || st.HasOpenRound {
		t.Fatalf("fresh player should have clear status, got %+v", st)
	}

	r, err := e.StartRound(ctx, "player-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	st, err = e.Status(ctx, "player-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.HasOpenRound || st.OpenRoundID != r.ID {
		t.Fatalf("expected open round %s in status, got %+v", r.ID, st)
	}
}

func TestResolvePlayer(t *testing.T) {
	e, _ := newTestEngine(t, "CRANE")
	ctx := context.Background()

	id, err := e.ResolvePlayer(ctx, "alice")
	if err != nil || id != "player-1" {
		t.Fatalf("expected player-1, got %q, %v", id, err)
	}
	if _, err := e.ResolvePlayer(ctx, "bob"); !errors.Is(err, game.ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}
