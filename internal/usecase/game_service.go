package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/game"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
)

// GameService advances a game through its phases, recording the period
// start/end events that anchor the match timeline.
type GameService struct {
	gameRepo  game.Repository
	eventRepo game.EventRepository
	idGen     idgen.Generator
	clock     ClockFunc
	publisher FeedPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewGameService(
	gameRepo game.Repository,
	eventRepo game.EventRepository,
	idGen idgen.Generator,
	clock ClockFunc,
	logger *slog.Logger,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = func(game.Game) game.Clock { return game.Clock{} }
	}

	return &GameService{
		gameRepo:  gameRepo,
		eventRepo: eventRepo,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *GameService) SetPublisher(p FeedPublisher) {
	s.publisher = p
}

// AdvancePhase moves a game to its next phase and records the matching
// period event: PERIOD_START entering a half, PERIOD_END leaving one.
func (s *GameService) AdvancePhase(ctx context.Context, gameID string) (game.Game, game.MatchEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.AdvancePhase")
	defer span.End()

	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, game.MatchEvent{}, fmt.Errorf("get game: %w", err)
	}
	if !ok {
		return game.Game{}, game.MatchEvent{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	next, eventType, err := nextPhase(g.Phase)
	if err != nil {
		return game.Game{}, game.MatchEvent{}, err
	}

	clock := s.clock(g)
	if eventType == game.EventPeriodStart {
		// The clock for a period start belongs to the period being opened.
		clock = game.Clock{Period: next.Period()}
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, game.MatchEvent{}, fmt.Errorf("generate event id: %w", err)
	}
	ev := game.MatchEvent{
		ID:           eventID,
		GameID:       gameID,
		Type:         eventType,
		Period:       clock.Period,
		PeriodSecond: clock.PeriodSecond,
		OurTeam:      true,
		RecordedAt:   s.now().UTC(),
	}
	if err := s.eventRepo.Insert(ctx, ev); err != nil {
		return game.Game{}, game.MatchEvent{}, fmt.Errorf("record period event: %w", err)
	}

	g.Phase = next
	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, game.MatchEvent{}, fmt.Errorf("update game phase: %w", err)
	}

	s.logger.InfoContext(ctx, "game phase advanced", "game_id", gameID, "phase", string(next))

	if s.publisher != nil {
		event := ev
		s.publisher.Publish(ctx, game.FeedEnvelope{GameID: gameID, Action: game.FeedCreated, Event: &event})
	}

	return g, ev, nil
}

func nextPhase(p game.Phase) (game.Phase, game.EventType, error) {
	switch p {
	case game.PhasePreGame:
		return game.PhaseFirstHalf, game.EventPeriodStart, nil
	case game.PhaseFirstHalf:
		return game.PhaseHalftime, game.EventPeriodEnd, nil
	case game.PhaseHalftime:
		return game.PhaseSecondHalf, game.EventPeriodStart, nil
	case game.PhaseSecondHalf:
		return game.PhaseFinal, game.EventPeriodEnd, nil
	default:
		return "", "", fmt.Errorf("%w: game is already final", ErrInvalidInput)
	}
}
