package memory

import (
	"context"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, g := range games {
		items[g.ID] = g
	}
	return &GameRepository{items: items}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	return g, ok, nil
}

func (r *GameRepository) ListByTeam(_ context.Context, teamID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, g := range r.items {
		if g.TeamID == teamID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GameRepository) Update(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[g.ID] = g
	return nil
}
