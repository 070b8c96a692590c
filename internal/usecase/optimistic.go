package usecase

import (
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/game"
)

// OptimisticTimeline is the displayed event list with optimistic updates: a
// provisional event is inserted before the server confirms, replaced with
// server truth on success and reverted on failure. A superseding feed
// message for the same provisional id also reconciles it.
type OptimisticTimeline struct {
	mu     sync.Mutex
	events []game.MatchEvent
}

func NewOptimisticTimeline() *OptimisticTimeline {
	return &OptimisticTimeline{}
}

// Apply inserts a provisional event.
func (t *OptimisticTimeline) Apply(provisional game.MatchEvent) {
	provisional.Provisional = true
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, provisional)
}

// Confirm replaces the provisional event with the confirmed one.
func (t *OptimisticTimeline) Confirm(provisionalID string, actual game.MatchEvent) {
	actual.Provisional = false
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, ev := range t.events {
		if ev.ID == provisionalID {
			t.events[i] = actual
			return
		}
	}
	// Confirmation arrived after a feed message already reconciled it.
	t.events = append(t.events, actual)
}

// Rollback removes a provisional event that failed to commit.
func (t *OptimisticTimeline) Rollback(provisionalID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, ev := range t.events {
		if ev.ID == provisionalID && ev.Provisional {
			t.events = append(t.events[:i], t.events[i+1:]...)
			return
		}
	}
}

// Reconcile applies a feed envelope to the timeline: confirmed events
// replace matching provisional ones, deletions drop events, duplicates are
// ignored.
func (t *OptimisticTimeline) Reconcile(env game.FeedEnvelope) {
	switch env.Action {
	case game.FeedCreated, game.FeedUpdated:
		if env.Event == nil {
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, ev := range t.events {
			if ev.ID == env.Event.ID {
				t.events[i] = *env.Event
				return
			}
		}
		t.events = append(t.events, *env.Event)
	case game.FeedDeleted:
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, ev := range t.events {
			if ev.ID == env.DeletedEventID {
				t.events = append(t.events[:i], t.events[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a copy of the timeline in insertion order.
func (t *OptimisticTimeline) Snapshot() []game.MatchEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]game.MatchEvent(nil), t.events...)
}
