package lineup

import (
	"fmt"

	"github.com/matchdayhq/matchday/internal/domain/roster"
)

// PlannedSlot is one occupied position in the lineup being built for the
// next period.
type PlannedSlot struct {
	Position string
	Player   roster.PlayerRef
}

// StaleItem is a queued change that referenced a position or player no
// longer present in the live snapshot, e.g. after a concurrent edit from
// another client. Stale items are skipped, not fatal.
type StaleItem struct {
	Item   QueuedItem
	Reason string
}

// Plan is the in-memory result of replaying a queue against the current
// on-field snapshot.
type Plan struct {
	Slots []PlannedSlot
	// BenchAdds are roster candidates queued with no position; they join the
	// game roster as bench players alongside the batch lineup call.
	BenchAdds []roster.PlayerRef
	Stale     []StaleItem
}

// ApplyToLineup builds the position array from the current on-field entries
// and replays the queued items against it in order. Duplicate position codes
// are handled by slot, not by code: a position-change edits only the first
// slot matching its old code, and swaps/removals locate their slot by the
// occupant's identity.
func ApplyToLineup(onField []roster.GameRosterEntry, items []QueuedItem) Plan {
	plan := Plan{Slots: make([]PlannedSlot, 0, len(onField)+len(items))}
	for _, e := range onField {
		plan.Slots = append(plan.Slots, PlannedSlot{Position: e.Position, Player: roster.RefFromEntry(e)})
	}

	for _, item := range items {
		switch c := item.Change.(type) {
		case Assignment:
			if c.Position == "" {
				plan.BenchAdds = append(plan.BenchAdds, c.Player)
				break
			}
			if c.Replacing == nil {
				plan.Slots = append(plan.Slots, PlannedSlot{Position: c.Position, Player: c.Player})
				break
			}
			i := slotByOccupant(plan.Slots, c.Replacing.GameEventID)
			if i < 0 {
				plan.Stale = append(plan.Stale, StaleItem{
					Item:   item,
					Reason: fmt.Sprintf("replaced player %s no longer on field", c.Replacing.GameEventID),
				})
				break
			}
			plan.Slots[i].Player = c.Player

		case PositionChange:
			i := slotByCode(plan.Slots, c.From)
			if i < 0 {
				plan.Stale = append(plan.Stale, StaleItem{
					Item:   item,
					Reason: fmt.Sprintf("no slot at position %s", c.From),
				})
				break
			}
			plan.Slots[i].Position = c.To

		case Swap:
			i := slotByOccupant(plan.Slots, c.Player1.GameEventID)
			j := slotByOccupant(plan.Slots, c.Player2.GameEventID)
			if i < 0 || j < 0 {
				plan.Stale = append(plan.Stale, StaleItem{
					Item:   item,
					Reason: "one or both swap players no longer on field",
				})
				break
			}
			plan.Slots[i].Position, plan.Slots[j].Position = plan.Slots[j].Position, plan.Slots[i].Position

		case Removal:
			i := slotByOccupant(plan.Slots, c.Player.GameEventID)
			if i < 0 {
				i = slotByCode(plan.Slots, c.Position)
			}
			if i < 0 {
				plan.Stale = append(plan.Stale, StaleItem{
					Item:   item,
					Reason: fmt.Sprintf("no slot to remove at position %s", c.Position),
				})
				break
			}
			plan.Slots = append(plan.Slots[:i], plan.Slots[i+1:]...)
		}
	}

	return plan
}

func slotByOccupant(slots []PlannedSlot, gameEventID string) int {
	for i, s := range slots {
		if s.Player.Kind == roster.RefGameEntry && s.Player.GameEventID == gameEventID {
			return i
		}
	}
	return -1
}

func slotByCode(slots []PlannedSlot, code string) int {
	for i, s := range slots {
		if s.Position == code {
			return i
		}
	}
	return -1
}
