package memory

import (
	"context"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/roster"
)

// RosterRepository keeps game roster entries in insertion order per game.
// Order matters downstream: reassignment flags overflow players by their
// on-field order.
type RosterRepository struct {
	mu     sync.RWMutex
	byGame map[string][]roster.GameRosterEntry
	gameOf map[string]string // gameEventID -> gameID
}

func NewRosterRepository(entries []roster.GameRosterEntry) *RosterRepository {
	r := &RosterRepository{
		byGame: make(map[string][]roster.GameRosterEntry),
		gameOf: make(map[string]string),
	}
	for _, e := range entries {
		r.byGame[e.GameID] = append(r.byGame[e.GameID], e)
		r.gameOf[e.GameEventID] = e.GameID
	}
	return r
}

func (r *RosterRepository) ListByGame(_ context.Context, gameID string) ([]roster.GameRosterEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byGame[gameID]
	out := make([]roster.GameRosterEntry, 0, len(entries))
	out = append(out, entries...)

	return out, nil
}

func (r *RosterRepository) GetEntry(_ context.Context, gameEventID string) (roster.GameRosterEntry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.locate(gameEventID)
	return entry, ok, nil
}

func (r *RosterRepository) Insert(_ context.Context, entry roster.GameRosterEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byGame[entry.GameID] = append(r.byGame[entry.GameID], entry)
	r.gameOf[entry.GameEventID] = entry.GameID
	return nil
}

func (r *RosterRepository) UpdatePosition(_ context.Context, gameEventID, position string) (roster.GameRosterEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gameID, ok := r.gameOf[gameEventID]
	if !ok {
		return roster.GameRosterEntry{}, false, nil
	}
	entries := r.byGame[gameID]
	for i := range entries {
		if entries[i].GameEventID == gameEventID {
			entries[i].Position = position
			return entries[i], true, nil
		}
	}
	return roster.GameRosterEntry{}, false, nil
}

func (r *RosterRepository) Delete(_ context.Context, gameEventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gameID, ok := r.gameOf[gameEventID]
	if !ok {
		return false, nil
	}
	entries := r.byGame[gameID]
	for i := range entries {
		if entries[i].GameEventID == gameEventID {
			r.byGame[gameID] = append(entries[:i], entries[i+1:]...)
			delete(r.gameOf, gameEventID)
			return true, nil
		}
	}
	return false, nil
}

func (r *RosterRepository) locate(gameEventID string) (roster.GameRosterEntry, bool) {
	gameID, ok := r.gameOf[gameEventID]
	if !ok {
		return roster.GameRosterEntry{}, false
	}
	for _, e := range r.byGame[gameID] {
		if e.GameEventID == gameEventID {
			return e, true
		}
	}
	return roster.GameRosterEntry{}, false
}
