package roster

import "context"

// Repository exposes game roster persistence operations.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]GameRosterEntry, error)
	GetEntry(ctx context.Context, gameEventID string) (GameRosterEntry, bool, error)
	Insert(ctx context.Context, entry GameRosterEntry) error
	UpdatePosition(ctx context.Context, gameEventID, position string) (GameRosterEntry, bool, error)
	Delete(ctx context.Context, gameEventID string) (bool, error)
}

// PlayerRepository exposes team roster reads.
type PlayerRepository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
}
