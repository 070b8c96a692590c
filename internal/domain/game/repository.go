package game

import "context"

// Repository exposes game persistence operations.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Game, error)
	Update(ctx context.Context, g Game) error
}

// EventRepository exposes match event persistence operations.
type EventRepository interface {
	Insert(ctx context.Context, event MatchEvent) error
	Update(ctx context.Context, event MatchEvent) (bool, error)
	Delete(ctx context.Context, eventID string) (bool, error)
	ListByGame(ctx context.Context, gameID string) ([]MatchEvent, error)
	GetByID(ctx context.Context, eventID string) (MatchEvent, bool, error)
}
