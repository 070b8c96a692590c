package formation

import "fmt"

// Slot is one position in a formation layout. Slot identity is the index in
// Formation.Slots, not the code: a formation may carry the same code twice
// (e.g. two CB slots in a back four).
type Slot struct {
	Code string
	X    float64
	Y    float64
}

// Formation is a named arrangement of position slots for a given team size.
// Values from the catalog are shared and must not be mutated.
type Formation struct {
	Code           string
	Name           string
	PlayersPerTeam int
	Slots          []Slot
}

func (f Formation) Validate() error {
	if f.Code == "" {
		return fmt.Errorf("formation code is required")
	}
	if f.PlayersPerTeam <= 0 {
		return fmt.Errorf("formation players per team must be positive")
	}
	if len(f.Slots) != f.PlayersPerTeam {
		return fmt.Errorf("formation %s has %d slots for %d players", f.Code, len(f.Slots), f.PlayersPerTeam)
	}
	for i, s := range f.Slots {
		if s.Code == "" {
			return fmt.Errorf("formation %s slot %d has empty position code", f.Code, i)
		}
	}

	return nil
}

// SlotCount reports how many slots in the formation carry the given
// position code.
func (f Formation) SlotCount(code string) int {
	n := 0
	for _, s := range f.Slots {
		if s.Code == code {
			n++
		}
	}
	return n
}

// HasCode reports whether any slot carries the given position code.
func (f Formation) HasCode(code string) bool {
	return f.SlotCount(code) > 0
}

// Codes returns the distinct position codes in slot order.
func (f Formation) Codes() []string {
	seen := make(map[string]struct{}, len(f.Slots))
	out := make([]string, 0, len(f.Slots))
	for _, s := range f.Slots {
		if _, ok := seen[s.Code]; ok {
			continue
		}
		seen[s.Code] = struct{}{}
		out = append(out, s.Code)
	}
	return out
}
