package memory

import (
	"context"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/roster"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]roster.Player
	byID   map[string]roster.Player
}

func NewPlayerRepository(players []roster.Player) *PlayerRepository {
	byTeam := make(map[string][]roster.Player)
	byID := make(map[string]roster.Player, len(players))

	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
		byID[p.ID] = p
	}

	return &PlayerRepository{byTeam: byTeam, byID: byID}
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]roster.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := r.byTeam[teamID]
	out := make([]roster.Player, 0, len(players))
	out = append(out, players...)

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (roster.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[playerID]
	return p, ok, nil
}
