package lineup

import "github.com/matchdayhq/matchday/internal/domain/roster"

// Direction says which end of a lineup assignment the user started from.
type Direction string

const (
	DirectionNone          Direction = ""
	DirectionPositionFirst Direction = "position-first"
	DirectionPlayerFirst   Direction = "player-first"
)

// Selection is the user's in-progress intent: nothing selected, a position
// waiting for a player, or a player waiting for a destination. Exactly one
// of Position/Player is meaningful when Direction is set; clearing resets
// every field at once.
type Selection struct {
	Direction Direction
	Position  string
	Player    roster.PlayerRef
	Source    Source
}

func (s Selection) Idle() bool {
	return s.Direction == DirectionNone
}

func positionFirst(code string) Selection {
	return Selection{Direction: DirectionPositionFirst, Position: code}
}

func playerFirst(p roster.PlayerRef, source Source) Selection {
	return Selection{Direction: DirectionPlayerFirst, Player: p, Source: source}
}

// Resolution is the outcome of one click: the next selection state plus, when
// the click completed an interaction, the change to commit or enqueue.
type Resolution struct {
	Next   Selection
	Change Change
}

// ClickPosition resolves a click on a formation position slot. A click on an
// occupied slot is always treated as a click on its occupant.
func (s Selection) ClickPosition(code string, occupant *roster.PlayerRef) (Resolution, error) {
	if occupant != nil {
		return s.ClickPlayer(*occupant, SourceOnField)
	}

	switch s.Direction {
	case DirectionNone:
		return Resolution{Next: positionFirst(code)}, nil

	case DirectionPositionFirst:
		if s.Position == code {
			return Resolution{}, nil // deselect
		}
		return Resolution{Next: positionFirst(code)}, nil // switch target

	case DirectionPlayerFirst:
		if s.Source == SourceOnField {
			if s.Player.Position == "" {
				return Resolution{}, ErrPlayerNotOnField
			}
			return Resolution{Change: PositionChange{Player: s.Player, From: s.Player.Position, To: code}}, nil
		}
		return Resolution{Change: Assignment{Position: code, Player: s.Player, Source: s.Source}}, nil
	}

	return Resolution{Next: s}, nil
}

// ClickPlayer resolves a click on a player, wherever they were clicked: a
// filled formation slot, the bench list, or the team roster list.
func (s Selection) ClickPlayer(p roster.PlayerRef, source Source) (Resolution, error) {
	switch s.Direction {
	case DirectionNone:
		return Resolution{Next: playerFirst(p, source)}, nil

	case DirectionPositionFirst:
		if source == SourceOnField {
			// On-field players are not assignable into a selected slot;
			// keep the slot selected and ignore the click.
			return Resolution{Next: s}, nil
		}
		return Resolution{Change: Assignment{Position: s.Position, Player: p, Source: source}}, nil

	case DirectionPlayerFirst:
		if s.Player.SameAs(p) {
			return Resolution{}, nil // deselect
		}
		if source != SourceOnField {
			// Switch the pending selection to the newly clicked player.
			return Resolution{Next: playerFirst(p, source)}, nil
		}
		if s.Source == SourceOnField {
			if s.Player.Position == "" || p.Position == "" {
				return Resolution{}, ErrSwapNeedsPositions
			}
			return Resolution{Change: Swap{
				Player1:         s.Player,
				Player1Position: s.Player.Position,
				Player2:         p,
				Player2Position: p.Position,
			}}, nil
		}
		// Bench or roster player takes the clicked player's spot.
		replaced := p
		return Resolution{Change: Assignment{
			Position:  p.Position,
			Player:    s.Player,
			Source:    s.Source,
			Replacing: &replaced,
		}}, nil
	}

	return Resolution{Next: s}, nil
}

// AddToBench resolves the "add to bench" action for a player: a removal for
// an on-field player, a positionless roster add for a roster candidate, and
// a no-op for a player already on the bench. Any active selection clears.
func (s Selection) AddToBench(p roster.PlayerRef, source Source) (Resolution, error) {
	switch source {
	case SourceOnField:
		if p.Position == "" {
			return Resolution{}, ErrPlayerNotOnField
		}
		return Resolution{Change: Removal{Player: p, Position: p.Position}}, nil
	case SourceRoster:
		return Resolution{Change: Assignment{Player: p, Source: SourceRoster}}, nil
	default:
		return Resolution{}, nil
	}
}
