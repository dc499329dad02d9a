// internal/game/admission.go
//
// Daily admission policy: how many rounds a player may start per calendar
// day. "Day" is the server's local midnight-to-midnight window, computed
// at round-start time. Counting rounds is the store's job; the guard is a
// pure policy decision.

package game

import "time"

// DefaultDailyLimit is the number of rounds a player may start per day.
const DefaultDailyLimit = 3

// AdmissionGuard decides round-start admission against a daily limit.
type AdmissionGuard struct {
	Limit int
}

// NewAdmissionGuard returns a guard with the given limit; a non-positive
// limit falls back to DefaultDailyLimit.
func NewAdmissionGuard(limit int) AdmissionGuard {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return AdmissionGuard{Limit: limit}
}

// CanStart reports whether a player who already started
// roundsStartedToday rounds may start another one.
func (g AdmissionGuard) CanStart(playerID string, roundsStartedToday int) bool {
	_ = playerID // policy is uniform across players
	return roundsStartedToday < g.Limit
}

// DayBounds returns the local-calendar day window containing t:
// [local midnight, next local midnight).
func DayBounds(t time.Time) (start, end time.Time) {
	local := t.Local()
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.AddDate(0, 0, 1)
}
