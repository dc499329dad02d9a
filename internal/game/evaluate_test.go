package game

import (
	"errors"
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		target string
		want   []Outcome
	}{
		{
			name:   "exact match",
			guess:  "LOYAL",
			target: "LOYAL",
			want:   []Outcome{OutcomeExact, OutcomeExact, OutcomeExact, OutcomeExact, OutcomeExact},
		},
		{
			name:   "anagram all present",
			guess:  "ALLOY",
			target: "LOYAL",
			want:   []Outcome{OutcomePresent, OutcomePresent, OutcomePresent, OutcomePresent, OutcomePresent},
		},
		{
			name:   "duplicate letters consume counts",
			guess:  "SPEED",
			target: "ERASE",
			want:   []Outcome{OutcomePresent, OutcomeAbsent, OutcomePresent, OutcomePresent, OutcomeAbsent},
		},
		{
			name:   "repeated guess letter not over-credited",
			guess:  "GEESE",
			target: "EAGLE",
			// target has two E: pos4 is exact, one E left for pos1;
			// the E at pos2 and S find nothing.
			want: []Outcome{OutcomePresent, OutcomePresent, OutcomeAbsent, OutcomeAbsent, OutcomeExact},
		},
		{
			name:   "no letters shared",
			guess:  "CRISP",
			target: "MONTH",
			want:   []Outcome{OutcomeAbsent, OutcomeAbsent, OutcomeAbsent, OutcomeAbsent, OutcomeAbsent},
		},
		{
			name:   "exact consumes before present",
			guess:  "LLAMA",
			target: "LOYAL",
			// pos0 L exact; second L takes the remaining L; first A takes
			// the lone A, second A gets nothing.
			want: []Outcome{OutcomeExact, OutcomePresent, OutcomePresent, OutcomeAbsent, OutcomeAbsent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.guess, tt.target)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d outcomes, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("position %d: expected %s, got %s (full: %v)", i, tt.want[i], got[i], got)
				}
			}
		})
	}
}

func TestEvaluateLengthMismatch(t *testing.T) {
	if _, err := Evaluate("FOUR", "LOYAL"); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	var ge *Error
	_, err := Evaluate("TOOLONGS", "LOYAL")
	if !errors.As(err, &ge) || ge.Code != "LENGTH_MISMATCH" {
		t.Fatalf("expected LENGTH_MISMATCH, got %v", err)
	}
}

// Credited outcomes (exact or present) for any letter must never exceed
// that letter's occurrence count in the target.
func TestEvaluateNeverOverCredits(t *testing.T) {
	pairs := [][2]string{
		{"ALLOY", "LOYAL"},
		{"SPEED", "ERASE"},
		{"GEESE", "EAGLE"},
		{"LLLLL", "LOYAL"},
		{"EEEEE", "ERASE"},
		{"AAAAA", "ABBEY"},
		{"MUMMY", "MADAM"},
	}
	for _, p := range pairs {
		guess, target := p[0], p[1]
		out, err := Evaluate(guess, target)
		if err != nil {
			t.Fatalf("evaluate %s vs %s: %v", guess, target, err)
		}
		credited := map[byte]int{}
		for i, o := range out {
			if o == OutcomeExact || o == OutcomePresent {
				credited[guess[i]]++
			}
		}
		for letter, n := range credited {
			if actual := strings.Count(target, string(letter)); n > actual {
				t.Fatalf("%s vs %s: letter %c credited %d times, target has %d", guess, target, letter, n, actual)
			}
		}
	}
}
