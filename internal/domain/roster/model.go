package roster

import (
	"fmt"
	"strings"
)

// GameRosterEntry records one player's presence in a specific game, on field
// or on the bench. Identity is GameEventID, which the server assigns and
// which stays stable for the life of the entry; it is distinct from the
// player's own id. Position empty means bench.
type GameRosterEntry struct {
	GameEventID          string
	GameID               string
	PlayerID             string
	ExternalPlayerName   string
	ExternalPlayerNumber string
	Position             string
}

func (e GameRosterEntry) OnField() bool {
	return e.Position != ""
}

func (e GameRosterEntry) Validate() error {
	if e.GameEventID == "" {
		return fmt.Errorf("game roster entry event id is required")
	}
	if e.GameID == "" {
		return fmt.Errorf("game roster entry game id is required")
	}
	if e.PlayerID == "" && strings.TrimSpace(e.ExternalPlayerName) == "" {
		return fmt.Errorf("game roster entry needs a player id or an external name")
	}

	return nil
}

// Player is a team-roster candidate that is not necessarily on any game
// roster yet. Read-only from the lineup core's perspective.
type Player struct {
	ID              string
	TeamID          string
	UserID          string
	JerseyNumber    string
	PrimaryPosition string
	FirstName       string
	LastName        string
	Email           string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}

	return nil
}

// PlayerRefKind discriminates what a PlayerRef was built from.
type PlayerRefKind string

const (
	// RefGameEntry means the ref wraps an existing game roster entry.
	RefGameEntry PlayerRefKind = "game-entry"
	// RefTeamPlayer means the ref wraps a team-roster player with no game
	// roster entry yet.
	RefTeamPlayer PlayerRefKind = "team-player"
)

// PlayerRef is the normalized view of "a player" used throughout the lineup
// core. External data is folded into it once at the boundary, so downstream
// code never sniffs field presence to tell a game entry from a roster
// candidate.
type PlayerRef struct {
	Kind                 PlayerRefKind
	GameEventID          string // set when Kind == RefGameEntry
	PlayerID             string
	ExternalPlayerName   string
	ExternalPlayerNumber string
	Name                 string
	Jersey               string
	Position             string // current assigned position, empty for bench/roster
}

// RefFromEntry normalizes a game roster entry.
func RefFromEntry(e GameRosterEntry) PlayerRef {
	name := e.ExternalPlayerName
	if name == "" {
		name = e.PlayerID
	}
	return PlayerRef{
		Kind:                 RefGameEntry,
		GameEventID:          e.GameEventID,
		PlayerID:             e.PlayerID,
		ExternalPlayerName:   e.ExternalPlayerName,
		ExternalPlayerNumber: e.ExternalPlayerNumber,
		Name:                 name,
		Jersey:               e.ExternalPlayerNumber,
		Position:             e.Position,
	}
}

// RefFromPlayer normalizes a team-roster player.
func RefFromPlayer(p Player) PlayerRef {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		name = p.ID
	}
	return PlayerRef{
		Kind:     RefTeamPlayer,
		PlayerID: p.ID,
		Name:     name,
		Jersey:   p.JerseyNumber,
	}
}

// Key returns the stable identity for the ref: the game event id for game
// entries, the player id otherwise.
func (r PlayerRef) Key() string {
	if r.Kind == RefGameEntry {
		return r.GameEventID
	}
	return r.PlayerID
}

func (r PlayerRef) IsZero() bool {
	return r.Kind == ""
}

// SameAs reports whether two refs identify the same player presence.
func (r PlayerRef) SameAs(other PlayerRef) bool {
	return !r.IsZero() && r.Kind == other.Kind && r.Key() == other.Key()
}
