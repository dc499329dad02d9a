package game

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func testRound(target string) *Round {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return NewRound("round-1", "player-1", target, start)
}

func applyN(t *testing.T, r *Round, guesses ...string) {
	t.Helper()
	for i, g := range guesses {
		if _, err := r.Apply(fmt.Sprintf("guess-%d", i+1), g, r.StartedAt.Add(time.Duration(i+1)*time.Minute)); err != nil {
			t.Fatalf("apply %q: %v", g, err)
		}
	}
}

func TestRoundStartsOpen(t *testing.T) {
	r := testRound("CRANE")
	if r.Status() != StatusOpen {
		t.Fatalf("expected open round, got %s", r.Status())
	}
	if r.Attempts != 0 || len(r.History) != 0 {
		t.Fatalf("expected fresh round, got attempts=%d history=%d", r.Attempts, len(r.History))
	}
	if r.AttemptsRemaining() != MaxAttempts {
		t.Fatalf("expected %d attempts remaining, got %d", MaxAttempts, r.AttemptsRemaining())
	}
}

func TestRoundWinEndsRound(t *testing.T) {
	r := testRound("CRANE")
	applyN(t, r, "SPICE", "CRANE")

	if r.Status() != StatusWon {
		t.Fatalf("expected won, got %s", r.Status())
	}
	if r.EndedAt == nil || !r.Won {
		t.Fatal("expected ended and won flags set")
	}
	if last := r.History[len(r.History)-1]; last.Word != r.Target {
		t.Fatalf("winning guess %q does not equal target %q", last.Word, r.Target)
	}
	if _, err := r.Apply("guess-x", "CRANE", time.Now()); !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("expected ErrRoundClosed after win, got %v", err)
	}
}

func TestRoundLostOnFinalMiss(t *testing.T) {
	r := testRound("CRANE")
	applyN(t, r, "SPICE", "SPICE", "SPICE", "SPICE")
	if r.Status() != StatusOpen {
		t.Fatalf("round should still be open after 4 misses, got %s", r.Status())
	}

	applyN(t, r, "SPICE")
	if r.Status() != StatusLost {
		t.Fatalf("expected lost after %d misses, got %s", MaxAttempts, r.Status())
	}
	if r.Won {
		t.Fatal("lost round must not be marked won")
	}
	if _, err := r.Apply("guess-x", "CRANE", time.Now()); !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("expected ErrRoundClosed on 6th guess, got %v", err)
	}
}

func TestRoundWinOnFinalAttempt(t *testing.T) {
	r := testRound("CRANE")
	applyN(t, r, "SPICE", "SPICE", "SPICE", "SPICE", "CRANE")
	if r.Status() != StatusWon {
		t.Fatalf("expected win on final attempt, got %s", r.Status())
	}
}

func TestRoundInvariants(t *testing.T) {
	r := testRound("CRANE")
	applyN(t, r, "SPICE", "GHOST", "CRANE")

	if r.Attempts != len(r.History) {
		t.Fatalf("attempts %d != history length %d", r.Attempts, len(r.History))
	}
	for i, g := range r.History {
		if g.GuessNumber != i+1 {
			t.Fatalf("history[%d] has guess number %d", i, g.GuessNumber)
		}
	}
}

func TestRoundExhaustedGuard(t *testing.T) {
	// A corrupted row: attempt count at the limit but never closed.
	r := testRound("CRANE")
	r.Attempts = MaxAttempts
	if _, err := r.Apply("guess-x", "SPICE", time.Now()); !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
}
