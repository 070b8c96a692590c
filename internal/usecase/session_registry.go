package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
)

// SessionRegistry holds one Session per game. Opening an existing session
// returns the live instance so every caller mutates the same state.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	gameRepo   game.Repository
	rosterRepo roster.Repository
	playerRepo roster.PlayerRepository
	engine     *LineupService
	formations *FormationService
	idGen      idgen.Generator
	clock      ClockFunc
	logger     *slog.Logger
}

func NewSessionRegistry(
	gameRepo game.Repository,
	rosterRepo roster.Repository,
	playerRepo roster.PlayerRepository,
	engine *LineupService,
	formations *FormationService,
	idGen idgen.Generator,
	clock ClockFunc,
	logger *slog.Logger,
) *SessionRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRegistry{
		sessions:   make(map[string]*Session),
		gameRepo:   gameRepo,
		rosterRepo: rosterRepo,
		playerRepo: playerRepo,
		engine:     engine,
		formations: formations,
		idGen:      idGen,
		clock:      clock,
		logger:     logger,
	}
}

// Open returns the session for a game, loading game, roster and team player
// snapshots when one does not exist yet.
func (r *SessionRegistry) Open(ctx context.Context, gameID string) (*Session, error) {
	r.mu.RLock()
	if s, ok := r.sessions[gameID]; ok {
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	g, found, err := r.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	entries, err := r.rosterRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game roster: %w", err)
	}
	players, err := r.playerRepo.ListByTeam(ctx, g.TeamID)
	if err != nil {
		return nil, fmt.Errorf("load team roster: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[gameID]; ok {
		return s, nil
	}
	s := newSession(g, entries, players, r.engine, r.formations, r.idGen, r.clock, r.logger)
	r.sessions[gameID] = s

	r.logger.InfoContext(ctx, "lineup session opened",
		slog.String("gameID", gameID),
		slog.String("phase", string(g.Phase)),
		slog.Int("rosterEntries", len(entries)))
	return s, nil
}

// Get returns the live session for a game, if one is open.
func (r *SessionRegistry) Get(gameID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[gameID]
	return s, ok
}

// Close discards a game's session. Pending queue items are dropped with it.
func (r *SessionRegistry) Close(gameID string) {
	r.mu.Lock()
	delete(r.sessions, gameID)
	r.mu.Unlock()
}

// HandleFeed routes an inbound feed message to the affected game's session:
// lineup-affecting events trigger a roster refresh, period events update the
// phase snapshot and conflicts are surfaced for display. Games without an
// open session are skipped.
func (r *SessionRegistry) HandleFeed(ctx context.Context, env game.FeedEnvelope) {
	gameID := env.GameID
	if gameID == "" {
		return
	}
	s, ok := r.Get(gameID)
	if !ok {
		return
	}

	if env.Conflict != nil {
		s.AcceptConflict(*env.Conflict)
		return
	}

	if env.Event != nil {
		switch env.Event.Type {
		case game.EventPeriodStart, game.EventPeriodEnd:
			g, found, err := r.gameRepo.GetByID(ctx, gameID)
			if err != nil || !found {
				r.logger.WarnContext(ctx, "period event received but game reload failed",
					slog.String("gameID", gameID), slog.Any("error", err))
				return
			}
			s.UpdateGame(g)
			return
		}
		if !env.Event.Type.LineupAffecting() {
			return
		}
	}

	if _, err := s.Refresh(ctx); err != nil {
		r.logger.WarnContext(ctx, "session refresh after feed event failed",
			slog.String("gameID", gameID), slog.Any("error", err))
	}
}
