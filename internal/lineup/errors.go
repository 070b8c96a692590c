package lineup

import "errors"

var (
	// ErrPlayerNotOnField is returned when a flow that needs an assigned
	// position is attempted with a player who has none.
	ErrPlayerNotOnField = errors.New("player has no assigned position")
	// ErrSwapNeedsPositions is returned when a swap is attempted and one or
	// both players lack an assigned position.
	ErrSwapNeedsPositions = errors.New("both players need an assigned position to swap")
	// ErrReassignmentIncomplete is returned when a formation change is
	// confirmed before every flagged player has a target position.
	ErrReassignmentIncomplete = errors.New("every flagged player needs a target position")
	// ErrEmptyLineup is returned when keeping the current lineup with no
	// players on the field.
	ErrEmptyLineup = errors.New("at least one player must be on the field")
)
