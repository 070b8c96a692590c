// Package lineup implements the live lineup and substitution core: the
// selection state machine, the pending change queue, halftime batch
// planning, and formation reassignment. Everything here is pure in-memory
// logic; committing changes is the execution engine's job (internal/usecase).
package lineup

import "github.com/matchdayhq/matchday/internal/domain/roster"

// Source says where a selected player was picked from.
type Source string

const (
	SourceOnField Source = "onField"
	SourceBench   Source = "bench"
	SourceRoster  Source = "roster"
)

// Change is one pending lineup change. The concrete type is the tag;
// switches over Change must handle every variant.
type Change interface {
	isChange()

	// Positions returns the position codes the change touches.
	Positions() []string
	// PlayerKeys returns the identities (game event ids, or player ids for
	// roster candidates) appearing in the change.
	PlayerKeys() []string
}

// Assignment puts a bench or roster player onto the field at Position,
// optionally replacing the player currently there. An empty Position sends a
// roster candidate straight to the bench.
type Assignment struct {
	Position  string
	Player    roster.PlayerRef
	Source    Source
	Replacing *roster.PlayerRef
}

// PositionChange moves an on-field player from one position code to another.
type PositionChange struct {
	Player roster.PlayerRef
	From   string
	To     string
}

// Swap exchanges the positions of two on-field players.
type Swap struct {
	Player1         roster.PlayerRef
	Player1Position string
	Player2         roster.PlayerRef
	Player2Position string
}

// Removal takes an on-field player off the game roster.
type Removal struct {
	Player   roster.PlayerRef
	Position string
}

func (Assignment) isChange()     {}
func (PositionChange) isChange() {}
func (Swap) isChange()           {}
func (Removal) isChange()        {}

func (c Assignment) Positions() []string {
	if c.Position == "" {
		return nil
	}
	return []string{c.Position}
}

func (c PositionChange) Positions() []string { return []string{c.From, c.To} }
func (c Swap) Positions() []string           { return []string{c.Player1Position, c.Player2Position} }
func (c Removal) Positions() []string        { return []string{c.Position} }

func (c Assignment) PlayerKeys() []string {
	keys := []string{c.Player.Key()}
	if c.Replacing != nil {
		keys = append(keys, c.Replacing.Key())
	}
	return keys
}

func (c PositionChange) PlayerKeys() []string { return []string{c.Player.Key()} }
func (c Swap) PlayerKeys() []string           { return []string{c.Player1.Key(), c.Player2.Key()} }
func (c Removal) PlayerKeys() []string        { return []string{c.Player.Key()} }

// QueuedItem is a Change with the queue-assigned id used for removal.
type QueuedItem struct {
	ID     string
	Change Change
}
