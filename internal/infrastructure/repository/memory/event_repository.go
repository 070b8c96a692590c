package memory

import (
	"context"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/game"
)

// EventRepository stores match events in recording order per game.
type EventRepository struct {
	mu     sync.RWMutex
	byGame map[string][]game.MatchEvent
	gameOf map[string]string // eventID -> gameID
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		byGame: make(map[string][]game.MatchEvent),
		gameOf: make(map[string]string),
	}
}

func (r *EventRepository) Insert(_ context.Context, event game.MatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byGame[event.GameID] = append(r.byGame[event.GameID], event)
	r.gameOf[event.ID] = event.GameID
	return nil
}

func (r *EventRepository) Update(_ context.Context, event game.MatchEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.byGame[event.GameID]
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = event
			return true, nil
		}
	}
	return false, nil
}

func (r *EventRepository) Delete(_ context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gameID, ok := r.gameOf[eventID]
	if !ok {
		return false, nil
	}
	events := r.byGame[gameID]
	for i := range events {
		if events[i].ID == eventID {
			r.byGame[gameID] = append(events[:i], events[i+1:]...)
			delete(r.gameOf, eventID)
			return true, nil
		}
	}
	return false, nil
}

func (r *EventRepository) ListByGame(_ context.Context, gameID string) ([]game.MatchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.byGame[gameID]
	out := make([]game.MatchEvent, 0, len(events))
	out = append(out, events...)

	return out, nil
}

func (r *EventRepository) GetByID(_ context.Context, eventID string) (game.MatchEvent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gameID, ok := r.gameOf[eventID]
	if !ok {
		return game.MatchEvent{}, false, nil
	}
	for _, ev := range r.byGame[gameID] {
		if ev.ID == eventID {
			return ev, true, nil
		}
	}
	return game.MatchEvent{}, false, nil
}
