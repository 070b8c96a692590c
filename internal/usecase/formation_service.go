package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/formation"
	"github.com/matchdayhq/matchday/internal/domain/game"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
)

// FormationService answers catalog lookups and records a game's formation
// change once any required reassignments have been applied.
type FormationService struct {
	catalog   *formation.Catalog
	gameRepo  game.Repository
	eventRepo game.EventRepository
	idGen     idgen.Generator
	publisher FeedPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewFormationService(
	catalog *formation.Catalog,
	gameRepo game.Repository,
	eventRepo game.EventRepository,
	idGen idgen.Generator,
	logger *slog.Logger,
) *FormationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &FormationService{
		catalog:   catalog,
		gameRepo:  gameRepo,
		eventRepo: eventRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *FormationService) SetPublisher(p FeedPublisher) {
	s.publisher = p
}

// Get returns a formation from the static catalog.
func (s *FormationService) Get(code string) (formation.Formation, error) {
	f, ok := s.catalog.Get(strings.TrimSpace(code))
	if !ok {
		return formation.Formation{}, fmt.Errorf("%w: formation=%s", ErrNotFound, code)
	}
	return f, nil
}

// ListBySize lists the catalog formations for a team size.
func (s *FormationService) ListBySize(playersPerTeam int) ([]formation.Formation, error) {
	if playersPerTeam <= 0 {
		return nil, fmt.Errorf("%w: players per team must be positive", ErrInvalidInput)
	}
	return s.catalog.ListBySize(playersPerTeam), nil
}

// SetGameFormation updates the game's active formation. The change is
// recorded as a match event when the game is live and applied silently
// otherwise.
func (s *FormationService) SetGameFormation(ctx context.Context, g game.Game, code string, clock game.Clock) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormationService.SetGameFormation")
	defer span.End()

	f, err := s.Get(code)
	if err != nil {
		return game.Game{}, err
	}

	g.FormationCode = f.Code
	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("update game formation: %w", err)
	}

	if g.Phase.Live() {
		eventID, err := s.idGen.NewID()
		if err != nil {
			return game.Game{}, fmt.Errorf("generate formation event id: %w", err)
		}
		ev := game.MatchEvent{
			ID:           eventID,
			GameID:       g.ID,
			Type:         game.EventFormationChange,
			Period:       clock.Period,
			PeriodSecond: clock.PeriodSecond,
			Position:     f.Code,
			OurTeam:      true,
			RecordedAt:   s.now().UTC(),
		}
		if err := s.eventRepo.Insert(ctx, ev); err != nil {
			return game.Game{}, fmt.Errorf("record formation change: %w", err)
		}
		if s.publisher != nil {
			s.publisher.Publish(ctx, game.FeedEnvelope{GameID: ev.GameID, Action: game.FeedCreated, Event: &ev})
		}
	}

	return g, nil
}
