package lineup

import (
	"context"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
)

// AddPlayerInput identifies the player joining a game roster, either a team
// player by id or a guest by name and number, with an optional position.
type AddPlayerInput struct {
	GameID               string
	PlayerID             string
	ExternalPlayerName   string
	ExternalPlayerNumber string
	Position             string
}

// SubstituteInput swaps a new player in for an on-field player, stamped with
// match time so the event is auditable.
type SubstituteInput struct {
	GameID           string
	PlayerOutEventID string
	PlayerIn         roster.PlayerRef
	Clock            game.Clock
}

// PositionChangeInput records an in-game position change with match time and
// a reason, the richer auditable variant of a plain position update.
type PositionChangeInput struct {
	GameID        string
	PlayerEventID string
	NewPosition   string
	Clock         game.Clock
	Reason        string
}

// SwapInput exchanges the positions of two on-field players server-side.
type SwapInput struct {
	GameID         string
	Player1EventID string
	Player2EventID string
	Clock          game.Clock
}

// BatchInput carries substitutions and swaps applied together.
type BatchInput struct {
	GameID        string
	Substitutions []SubstituteInput
	Swaps         []SwapInput
}

// SecondHalfResult is the server's answer to a batched lineup submission.
type SecondHalfResult struct {
	Events  []game.MatchEvent
	SubsOut []roster.GameRosterEntry
	SubsIn  []roster.GameRosterEntry
}

// Transport is the roster mutation surface the execution engine drives. In
// production it is backed by the service's own repositories; tests swap in
// fakes with failure hooks.
type Transport interface {
	AddPlayerToGameRoster(ctx context.Context, input AddPlayerInput) (roster.GameRosterEntry, error)
	UpdatePosition(ctx context.Context, gameEventID, position string) (roster.GameRosterEntry, error)
	RemoveFromLineup(ctx context.Context, gameEventID string) error
	SubstitutePlayer(ctx context.Context, input SubstituteInput) (roster.GameRosterEntry, error)
	RecordPositionChange(ctx context.Context, input PositionChangeInput) (roster.GameRosterEntry, error)
	SetSecondHalfLineup(ctx context.Context, gameID string, slots []PlannedSlot) (SecondHalfResult, error)
	SwapPositions(ctx context.Context, input SwapInput) ([]roster.GameRosterEntry, error)
	BatchLineupChanges(ctx context.Context, input BatchInput) ([]roster.GameRosterEntry, error)
	RefetchRoster(ctx context.Context, gameID string) ([]roster.GameRosterEntry, error)
}
