package lineup

import (
	"sort"

	"github.com/matchdayhq/matchday/internal/domain/roster"
)

// Queue is the ordered list of pending lineup changes accumulated while the
// game is at halftime or pre-game. It is a diff against the last committed
// roster: items only make sense replayed in insertion order.
type Queue struct {
	items []QueuedItem
}

func (q *Queue) Enqueue(id string, c Change) QueuedItem {
	item := QueuedItem{ID: id, Change: c}
	q.items = append(q.items, item)
	return item
}

// Remove drops the item with the given id. Order of the rest is preserved.
func (q *Queue) Remove(id string) bool {
	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Clear() {
	q.items = nil
}

// Clone returns a queue with its own backing array. Removing or clearing
// through the clone leaves the receiver untouched.
func (q *Queue) Clone() Queue {
	return Queue{items: q.Items()}
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns the queued items in insertion order. The slice is a copy;
// the Change values are shared.
func (q *Queue) Items() []QueuedItem {
	return append([]QueuedItem(nil), q.items...)
}

// Positions returns the set of position codes touched by queued assignment
// and position-change items, used to flag contested slots in the UI.
func (q *Queue) Positions() map[string]struct{} {
	out := make(map[string]struct{})
	for _, item := range q.items {
		switch c := item.Change.(type) {
		case Assignment:
			for _, p := range c.Positions() {
				out[p] = struct{}{}
			}
		case PositionChange:
			out[c.From] = struct{}{}
			out[c.To] = struct{}{}
		}
	}
	return out
}

// PlayerKeys returns the identities of every player appearing in any queued
// item, used to flag players mid-change.
func (q *Queue) PlayerKeys() map[string]struct{} {
	out := make(map[string]struct{})
	for _, item := range q.items {
		for _, k := range item.Change.PlayerKeys() {
			out[k] = struct{}{}
		}
	}
	return out
}

// Filled simulates the queue forward from the current on-field entries and
// returns the resulting filled-position count and multiset of codes (sorted).
// The count shown before commit must never drift from the committed result,
// so the simulation is the commit's own replay: removals and replacements
// resolve their slot by occupant, not by code, exactly as ApplyToLineup does.
func (q *Queue) Filled(onField []roster.GameRosterEntry) (int, []string) {
	plan := ApplyToLineup(onField, q.items)
	positions := make([]string, 0, len(plan.Slots))
	for _, s := range plan.Slots {
		positions = append(positions, s.Position)
	}
	sort.Strings(positions)
	return len(positions), positions
}
