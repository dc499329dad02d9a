// internal/store/memory.go
//
// In-memory implementation of the game.RoundStore contract, used for
// tests and durability-free development runs.
//
// Characteristics:
//   - Rounds are stored as deep copies, so callers never share mutable
//     state with the store.
//   - Save enforces the optimistic version check the SQLite store uses,
//     so race behavior is identical across backends.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wordgame/go-server/internal/game"
)

// Memory is a map-backed RoundStore.
type Memory struct {
	mu     sync.RWMutex
	rounds map[string]*game.Round
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rounds: make(map[string]*game.Round)}
}

// cloneRound copies a round so store and caller never alias.
// Evaluation slices inside records are append-only after creation and
// safe to share.
func cloneRound(r *game.Round) *game.Round {
	c := *r
	if r.EndedAt != nil {
		t := *r.EndedAt
		c.EndedAt = &t
	}
	c.History = make([]game.GuessRecord, len(r.History))
	copy(c.History, r.History)
	return &c
}

// Save upserts the round if its version matches the stored one, then
// bumps the version on both sides. A mismatch means another writer got
// there first.
func (m *Memory) Save(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rounds[r.ID]
	if ok {
		if cur.Version != r.Version {
			return game.ErrConflict
		}
	} else if r.Version != 0 {
		return game.ErrConflict
	}
	r.Version++
	m.rounds[r.ID] = cloneRound(r)
	return nil
}

// FindByID returns a copy of the round or game.ErrRoundNotFound.
func (m *Memory) FindByID(ctx context.Context, id string) (*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return cloneRound(r), nil
	}
	return nil, game.ErrRoundNotFound
}

// CountStartedBetween counts the player's rounds with
// start <= StartedAt < end.
func (m *Memory) CountStartedBetween(ctx context.Context, playerID string, start, end time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.rounds {
		if r.PlayerID == playerID && !r.StartedAt.Before(start) && r.StartedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

// FindOpenRound returns the player's open round, or (nil, nil) if none.
func (m *Memory) FindOpenRound(ctx context.Context, playerID string) (*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rounds {
		if r.PlayerID == playerID && r.EndedAt == nil {
			return cloneRound(r), nil
		}
	}
	return nil, nil
}

// FindHistory returns all of the player's rounds, most recent first.
func (m *Memory) FindHistory(ctx context.Context, playerID string) ([]*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*game.Round
	for _, r := range m.rounds {
		if r.PlayerID == playerID {
			out = append(out, cloneRound(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}
