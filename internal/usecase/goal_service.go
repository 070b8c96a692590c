package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
)

// RecordGoalInput captures a goal. The scorer may come from the lineup (by
// roster entry) or from quick entry (by jersey number); which fields are
// required depends on the game's stats tracking level.
type RecordGoalInput struct {
	GameID        string
	OurTeam       bool
	Clock         game.Clock
	ScorerEventID string
	ScorerJersey  string
	AssistEventID string
}

// EditGoalInput updates a recorded goal. ClearAssist removes a previously
// recorded assist explicitly, which an empty AssistEventID alone does not.
type EditGoalInput struct {
	EventID       string
	Clock         game.Clock
	ScorerEventID string
	AssistEventID string
	ClearAssist   bool
}

// GoalService records and edits goals with optimistic timeline updates.
type GoalService struct {
	gameRepo   game.Repository
	eventRepo  game.EventRepository
	rosterRepo roster.Repository
	timeline   *OptimisticTimeline
	idGen      idgen.Generator
	publisher  FeedPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewGoalService(
	gameRepo game.Repository,
	eventRepo game.EventRepository,
	rosterRepo roster.Repository,
	timeline *OptimisticTimeline,
	idGen idgen.Generator,
	logger *slog.Logger,
) *GoalService {
	if logger == nil {
		logger = slog.Default()
	}

	return &GoalService{
		gameRepo:   gameRepo,
		eventRepo:  eventRepo,
		rosterRepo: rosterRepo,
		timeline:   timeline,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *GoalService) SetPublisher(p FeedPublisher) {
	s.publisher = p
}

// Timeline returns the optimistic event timeline snapshot.
func (s *GoalService) Timeline() []game.MatchEvent {
	return s.timeline.Snapshot()
}

// RecordGoal validates the input against the game's stats tracking level,
// applies an optimistic timeline update, then persists. The provisional
// entry is confirmed on success and rolled back on failure.
func (s *GoalService) RecordGoal(ctx context.Context, input RecordGoalInput) (game.MatchEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GoalService.RecordGoal")
	defer span.End()

	g, ok, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return game.MatchEvent{}, fmt.Errorf("get game: %w", err)
	}
	if !ok {
		return game.MatchEvent{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	ev := game.MatchEvent{
		GameID:       input.GameID,
		Type:         game.EventGoal,
		Period:       input.Clock.Period,
		PeriodSecond: input.Clock.PeriodSecond,
		OurTeam:      input.OurTeam,
		RecordedAt:   s.now().UTC(),
	}

	if input.OurTeam && g.StatsLevel != game.StatsGoalsOnly {
		scorer, err := s.resolveScorer(ctx, input)
		if err != nil {
			return game.MatchEvent{}, err
		}
		ev.PlayerID = scorer.PlayerID
		ev.PlayerName = roster.RefFromEntry(scorer).Name
		ev.Jersey = scorer.ExternalPlayerNumber
		ev.Position = scorer.Position

		if g.StatsLevel == game.StatsFull && input.AssistEventID != "" {
			assist, ok, err := s.rosterRepo.GetEntry(ctx, input.AssistEventID)
			if err != nil {
				return game.MatchEvent{}, fmt.Errorf("get assist entry: %w", err)
			}
			if !ok {
				return game.MatchEvent{}, fmt.Errorf("%w: assist entry=%s", ErrNotFound, input.AssistEventID)
			}
			ev.AssistID = assist.PlayerID
			ev.AssistName = roster.RefFromEntry(assist).Name
		}
	}

	provisionalID, err := s.idGen.NewID()
	if err != nil {
		return game.MatchEvent{}, fmt.Errorf("generate provisional id: %w", err)
	}
	provisional := ev
	provisional.ID = "tmp-" + provisionalID
	s.timeline.Apply(provisional)

	eventID, err := s.idGen.NewID()
	if err != nil {
		s.timeline.Rollback(provisional.ID)
		return game.MatchEvent{}, fmt.Errorf("generate event id: %w", err)
	}
	ev.ID = eventID

	if err := s.eventRepo.Insert(ctx, ev); err != nil {
		s.timeline.Rollback(provisional.ID)
		return game.MatchEvent{}, fmt.Errorf("record goal: %w", err)
	}
	s.timeline.Confirm(provisional.ID, ev)

	if input.OurTeam {
		g.HomeScore++
	} else {
		g.AwayScore++
	}
	if err := s.gameRepo.Update(ctx, g); err != nil {
		s.logger.WarnContext(ctx, "update score failed", "game_id", g.ID, "error", err)
	}

	if s.publisher != nil {
		event := ev
		s.publisher.Publish(ctx, game.FeedEnvelope{GameID: event.GameID, Action: game.FeedCreated, Event: &event})
	}

	return ev, nil
}

// EditGoal re-opens a recorded goal with new details, supporting explicit
// clearing of a previously recorded assist.
func (s *GoalService) EditGoal(ctx context.Context, input EditGoalInput) (game.MatchEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GoalService.EditGoal")
	defer span.End()

	ev, ok, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return game.MatchEvent{}, fmt.Errorf("get goal event: %w", err)
	}
	if !ok {
		return game.MatchEvent{}, fmt.Errorf("%w: event=%s", ErrNotFound, input.EventID)
	}
	if ev.Type != game.EventGoal {
		return game.MatchEvent{}, fmt.Errorf("%w: event %s is not a goal", ErrInvalidInput, input.EventID)
	}

	ev.Period = input.Clock.Period
	ev.PeriodSecond = input.Clock.PeriodSecond

	if input.ScorerEventID != "" {
		scorer, ok, err := s.rosterRepo.GetEntry(ctx, input.ScorerEventID)
		if err != nil {
			return game.MatchEvent{}, fmt.Errorf("get scorer entry: %w", err)
		}
		if !ok {
			return game.MatchEvent{}, fmt.Errorf("%w: scorer entry=%s", ErrNotFound, input.ScorerEventID)
		}
		ev.PlayerID = scorer.PlayerID
		ev.PlayerName = roster.RefFromEntry(scorer).Name
		ev.Jersey = scorer.ExternalPlayerNumber
	}

	switch {
	case input.ClearAssist:
		ev.AssistID = ""
		ev.AssistName = ""
	case input.AssistEventID != "":
		assist, ok, err := s.rosterRepo.GetEntry(ctx, input.AssistEventID)
		if err != nil {
			return game.MatchEvent{}, fmt.Errorf("get assist entry: %w", err)
		}
		if !ok {
			return game.MatchEvent{}, fmt.Errorf("%w: assist entry=%s", ErrNotFound, input.AssistEventID)
		}
		ev.AssistID = assist.PlayerID
		ev.AssistName = roster.RefFromEntry(assist).Name
	}

	if _, err := s.eventRepo.Update(ctx, ev); err != nil {
		return game.MatchEvent{}, fmt.Errorf("update goal: %w", err)
	}
	s.timeline.Reconcile(game.FeedEnvelope{GameID: ev.GameID, Action: game.FeedUpdated, Event: &ev})

	if s.publisher != nil {
		event := ev
		s.publisher.Publish(ctx, game.FeedEnvelope{GameID: event.GameID, Action: game.FeedUpdated, Event: &event})
	}

	return ev, nil
}

func (s *GoalService) resolveScorer(ctx context.Context, input RecordGoalInput) (roster.GameRosterEntry, error) {
	if input.ScorerEventID != "" {
		entry, ok, err := s.rosterRepo.GetEntry(ctx, input.ScorerEventID)
		if err != nil {
			return roster.GameRosterEntry{}, fmt.Errorf("get scorer entry: %w", err)
		}
		if !ok {
			return roster.GameRosterEntry{}, fmt.Errorf("%w: scorer entry=%s", ErrNotFound, input.ScorerEventID)
		}
		return entry, nil
	}

	jersey := strings.TrimSpace(input.ScorerJersey)
	if jersey == "" {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: scorer is required at this stats tracking level", ErrInvalidInput)
	}

	entries, err := s.rosterRepo.ListByGame(ctx, input.GameID)
	if err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("list game roster: %w", err)
	}
	for _, e := range entries {
		if e.ExternalPlayerNumber == jersey {
			return e, nil
		}
	}
	return roster.GameRosterEntry{}, fmt.Errorf("%w: no roster entry with jersey %s", ErrNotFound, jersey)
}
