// internal/game/evaluate.go
//
// Letter-by-letter evaluation of a guess against the target word.
// Implements the standard two-pass algorithm so repeated letters are
// never credited beyond their occurrence count in the target.

package game

// Outcome is the evaluation result for a single letter position.
// Possible values:
//   - "exact":   letter is correct and in the correct position.
//   - "present": letter exists in the target but in a different position.
//   - "absent":  letter does not occur (or all its occurrences are spent).
type Outcome string

const (
	OutcomeExact   Outcome = "exact"
	OutcomePresent Outcome = "present"
	OutcomeAbsent  Outcome = "absent"
)

// Evaluate scores guess against target position by position.
// Both words must be the same length and uppercase A-Z.
//
// Pass 1 marks exact matches and counts the remaining (non-exact) target
// letters. Pass 2 resolves present/absent against those counts, consuming
// one occurrence per "present". A naive contains-check would over-credit
// a repeated guess letter; the count pool makes that impossible.
func Evaluate(guess, target string) ([]Outcome, error) {
	if len(guess) != len(target) {
		return nil, &Error{Code: "LENGTH_MISMATCH", Message: "guess and target length differ"}
	}
	n := len(guess)
	res := make([]Outcome, n)

	// Letter frequency for the non-exact target positions (A-Z).
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			res[i] = OutcomeExact
		} else {
			counts[letterIdx(target[i])]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == OutcomeExact {
			continue
		}
		j := letterIdx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = OutcomePresent
			counts[j]--
		} else {
			res[i] = OutcomeAbsent
		}
	}
	return res, nil
}

// letterIdx maps an uppercase ASCII letter to 0..25.
// Inputs are validated to A-Z elsewhere.
func letterIdx(b byte) int { return int(b - 'A') }

// allExact reports whether every outcome is an exact match.
func allExact(out []Outcome) bool {
	for _, o := range out {
		if o != OutcomeExact {
			return false
		}
	}
	return true
}

// isUpperAlpha reports whether s consists only of uppercase ASCII letters.
func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
