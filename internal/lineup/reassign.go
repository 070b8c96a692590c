package lineup

import (
	"fmt"

	"github.com/matchdayhq/matchday/internal/domain/formation"
	"github.com/matchdayhq/matchday/internal/domain/roster"
)

// FlaggedPlayer is an on-field player who no longer fits after a formation
// change reduced the slots available at their position code.
type FlaggedPlayer struct {
	Player      roster.GameRosterEntry
	OldPosition string
}

// Reassignment tracks the manual choices required before a formation change
// can proceed. It is raised when the new formation has fewer slots at some
// code than there are players currently at that code; the change is held
// until every flagged player has a target position.
type Reassignment struct {
	NewFormation formation.Formation
	ToReassign   []FlaggedPlayer

	staying map[string]int    // code -> players keeping their spot
	mapping map[string]string // gameEventID -> chosen target code
}

// PlanReassignment compares the on-field players against the new formation's
// slot counts. Players are kept at their code in existing order up to the
// slots available; the overflow is flagged. Returns nil when everybody fits
// and the formation change can apply directly.
func PlanReassignment(onField []roster.GameRosterEntry, newFormation formation.Formation) *Reassignment {
	groups := roster.ByPosition(onField)

	r := &Reassignment{
		NewFormation: newFormation,
		staying:      make(map[string]int, len(groups)),
		mapping:      make(map[string]string),
	}

	// Walk entries in on-field order so flagged players keep a stable,
	// predictable ordering across replans.
	taken := make(map[string]int, len(groups))
	for _, e := range onField {
		if !e.OnField() {
			continue
		}
		slots := newFormation.SlotCount(e.Position)
		if taken[e.Position] < slots {
			taken[e.Position]++
			r.staying[e.Position]++
			continue
		}
		r.ToReassign = append(r.ToReassign, FlaggedPlayer{Player: e, OldPosition: e.Position})
	}

	if len(r.ToReassign) == 0 {
		return nil
	}
	return r
}

// Eligible lists the target codes the flagged player may choose: codes with
// slots left after players staying in place and tentative choices already
// made by flagged players. The player's own current choice stays listed even
// though its slot is counted as consumed, so an in-progress pick is never
// yanked out of the list under the user.
func (r *Reassignment) Eligible(gameEventID string) []string {
	own := r.mapping[gameEventID]

	chosen := make(map[string]int, len(r.mapping))
	for _, code := range r.mapping {
		chosen[code]++
	}

	out := make([]string, 0, len(r.NewFormation.Slots))
	for _, code := range r.NewFormation.Codes() {
		free := r.NewFormation.SlotCount(code) - r.staying[code] - chosen[code]
		if free > 0 || code == own {
			out = append(out, code)
		}
	}
	return out
}

// Choose records the target position for a flagged player.
func (r *Reassignment) Choose(gameEventID, code string) error {
	if !r.flagged(gameEventID) {
		return fmt.Errorf("player %s is not awaiting reassignment", gameEventID)
	}
	for _, c := range r.Eligible(gameEventID) {
		if c == code {
			r.mapping[gameEventID] = code
			return nil
		}
	}
	return fmt.Errorf("position %s has no free slot in formation %s", code, r.NewFormation.Code)
}

// Unchoose clears a flagged player's current choice.
func (r *Reassignment) Unchoose(gameEventID string) {
	delete(r.mapping, gameEventID)
}

// Complete reports whether every flagged player has a target position.
func (r *Reassignment) Complete() bool {
	return len(r.mapping) == len(r.ToReassign)
}

// Mapping returns a copy of the choices made so far.
func (r *Reassignment) Mapping() map[string]string {
	out := make(map[string]string, len(r.mapping))
	for k, v := range r.mapping {
		out[k] = v
	}
	return out
}

// Changes converts the completed choice set into position changes, one per
// flagged player in flag order. Callers must check Complete first.
func (r *Reassignment) Changes() ([]PositionChange, error) {
	if !r.Complete() {
		return nil, ErrReassignmentIncomplete
	}

	out := make([]PositionChange, 0, len(r.ToReassign))
	for _, fp := range r.ToReassign {
		out = append(out, PositionChange{
			Player: roster.RefFromEntry(fp.Player),
			From:   fp.OldPosition,
			To:     r.mapping[fp.Player.GameEventID],
		})
	}
	return out, nil
}

func (r *Reassignment) flagged(gameEventID string) bool {
	for _, fp := range r.ToReassign {
		if fp.Player.GameEventID == gameEventID {
			return true
		}
	}
	return false
}
