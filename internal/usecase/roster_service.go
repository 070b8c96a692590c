package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/lineup"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
)

// FeedPublisher pushes envelopes onto the outbound event feed. Nil-safe from
// the services' perspective; a nil publisher drops envelopes.
type FeedPublisher interface {
	Publish(ctx context.Context, env game.FeedEnvelope)
}

// GameRosterView is the derived read model for one game's roster.
type GameRosterView struct {
	OnField   []roster.GameRosterEntry
	Bench     []roster.GameRosterEntry
	Available []roster.Player
}

// RosterService owns game roster reads and mutations. It implements
// lineup.Transport, so the execution engine commits through it the same way
// tests commit through a fake.
type RosterService struct {
	rosterRepo roster.Repository
	playerRepo roster.PlayerRepository
	gameRepo   game.Repository
	eventRepo  game.EventRepository
	idGen      idgen.Generator
	publisher  FeedPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewRosterService(
	rosterRepo roster.Repository,
	playerRepo roster.PlayerRepository,
	gameRepo game.Repository,
	eventRepo game.EventRepository,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		rosterRepo: rosterRepo,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		eventRepo:  eventRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// SetPublisher attaches the outbound feed. Optional; wired after
// construction because the feed broker also consumes the service.
func (s *RosterService) SetPublisher(p FeedPublisher) {
	s.publisher = p
}

// View returns the on-field/bench/available derivation for a game.
func (s *RosterService) View(ctx context.Context, gameID string) (GameRosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.View")
	defer span.End()

	g, err := s.game(ctx, gameID)
	if err != nil {
		return GameRosterView{}, err
	}

	entries, err := s.rosterRepo.ListByGame(ctx, gameID)
	if err != nil {
		return GameRosterView{}, fmt.Errorf("list game roster: %w", err)
	}
	teamRoster, err := s.playerRepo.ListByTeam(ctx, g.TeamID)
	if err != nil {
		return GameRosterView{}, fmt.Errorf("list team roster: %w", err)
	}

	return GameRosterView{
		OnField:   roster.OnField(entries),
		Bench:     roster.Bench(entries),
		Available: roster.Available(teamRoster, entries),
	}, nil
}

// RosterEntry returns one game roster entry.
func (s *RosterService) RosterEntry(ctx context.Context, gameEventID string) (roster.GameRosterEntry, error) {
	entry, ok, err := s.rosterRepo.GetEntry(ctx, gameEventID)
	if err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("get roster entry: %w", err)
	}
	if !ok {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: roster entry=%s", ErrNotFound, gameEventID)
	}
	return entry, nil
}

// TeamRoster lists the team's players for a game.
func (s *RosterService) TeamRoster(ctx context.Context, gameID string) ([]roster.Player, error) {
	g, err := s.game(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByTeam(ctx, g.TeamID)
	if err != nil {
		return nil, fmt.Errorf("list team roster: %w", err)
	}
	return players, nil
}

// AddPlayerToGameRoster creates a game roster entry for a team player or a
// guest identified by name and number, optionally straight into a position.
func (s *RosterService) AddPlayerToGameRoster(ctx context.Context, input lineup.AddPlayerInput) (roster.GameRosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayerToGameRoster")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.ExternalPlayerName = strings.TrimSpace(input.ExternalPlayerName)
	if input.GameID == "" {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.PlayerID == "" && input.ExternalPlayerName == "" {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: player id or external name is required", ErrInvalidInput)
	}

	if _, err := s.game(ctx, input.GameID); err != nil {
		return roster.GameRosterEntry{}, err
	}

	if input.PlayerID != "" {
		if _, ok, err := s.playerRepo.GetByID(ctx, input.PlayerID); err != nil {
			return roster.GameRosterEntry{}, fmt.Errorf("get player: %w", err)
		} else if !ok {
			return roster.GameRosterEntry{}, fmt.Errorf("%w: player=%s", ErrNotFound, input.PlayerID)
		}
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("generate roster entry id: %w", err)
	}

	entry := roster.GameRosterEntry{
		GameEventID:          eventID,
		GameID:               input.GameID,
		PlayerID:             input.PlayerID,
		ExternalPlayerName:   input.ExternalPlayerName,
		ExternalPlayerNumber: input.ExternalPlayerNumber,
		Position:             input.Position,
	}
	if err := entry.Validate(); err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.rosterRepo.Insert(ctx, entry); err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("insert roster entry: %w", err)
	}

	return entry, nil
}

// UpdatePosition moves an entry to a new position code; empty position
// benches the player.
func (s *RosterService) UpdatePosition(ctx context.Context, gameEventID, position string) (roster.GameRosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdatePosition")
	defer span.End()

	entry, ok, err := s.rosterRepo.UpdatePosition(ctx, gameEventID, position)
	if err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("update position: %w", err)
	}
	if !ok {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: roster entry=%s", ErrNotFound, gameEventID)
	}
	return entry, nil
}

// RemoveFromLineup deletes the entry from the game roster entirely.
func (s *RosterService) RemoveFromLineup(ctx context.Context, gameEventID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemoveFromLineup")
	defer span.End()

	ok, err := s.rosterRepo.Delete(ctx, gameEventID)
	if err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: roster entry=%s", ErrNotFound, gameEventID)
	}
	return nil
}

// SubstitutePlayer benches the outgoing entry, fields the incoming player
// and records the paired substitution events with match time.
func (s *RosterService) SubstitutePlayer(ctx context.Context, input lineup.SubstituteInput) (roster.GameRosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SubstitutePlayer")
	defer span.End()

	out, ok, err := s.rosterRepo.GetEntry(ctx, input.PlayerOutEventID)
	if err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("get outgoing entry: %w", err)
	}
	if !ok {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: roster entry=%s", ErrNotFound, input.PlayerOutEventID)
	}
	if !out.OnField() {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: outgoing player is not on the field", ErrInvalidInput)
	}
	position := out.Position

	if _, _, err := s.rosterRepo.UpdatePosition(ctx, out.GameEventID, ""); err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("bench outgoing player: %w", err)
	}

	in, err := s.fieldRef(ctx, input.GameID, input.PlayerIn, position)
	if err != nil {
		return roster.GameRosterEntry{}, err
	}

	s.recordEvent(ctx, game.MatchEvent{
		GameID: input.GameID, Type: game.EventSubstitutionOut,
		Period: input.Clock.Period, PeriodSecond: input.Clock.PeriodSecond,
		PlayerID: out.PlayerID, PlayerName: roster.RefFromEntry(out).Name, Position: position,
	})
	s.recordEvent(ctx, game.MatchEvent{
		GameID: input.GameID, Type: game.EventSubstitutionIn,
		Period: input.Clock.Period, PeriodSecond: input.Clock.PeriodSecond,
		PlayerID: in.PlayerID, PlayerName: roster.RefFromEntry(in).Name, Position: position,
	})

	return in, nil
}

// RecordPositionChange moves an on-field player and writes the auditable
// position-change event.
func (s *RosterService) RecordPositionChange(ctx context.Context, input lineup.PositionChangeInput) (roster.GameRosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RecordPositionChange")
	defer span.End()

	before, ok, err := s.rosterRepo.GetEntry(ctx, input.PlayerEventID)
	if err != nil {
		return roster.GameRosterEntry{}, fmt.Errorf("get entry: %w", err)
	}
	if !ok {
		return roster.GameRosterEntry{}, fmt.Errorf("%w: roster entry=%s", ErrNotFound, input.PlayerEventID)
	}

	entry, err := s.UpdatePosition(ctx, input.PlayerEventID, input.NewPosition)
	if err != nil {
		return roster.GameRosterEntry{}, err
	}

	s.recordEvent(ctx, game.MatchEvent{
		GameID: input.GameID, Type: game.EventPositionChange,
		Period: input.Clock.Period, PeriodSecond: input.Clock.PeriodSecond,
		PlayerID: entry.PlayerID, PlayerName: roster.RefFromEntry(entry).Name,
		Position: input.NewPosition, OldPosition: before.Position, Reason: input.Reason,
	})

	return entry, nil
}

// SetSecondHalfLineup applies a batched lineup as one operation: entries in
// the submitted slots take those positions, on-field entries missing from
// the submission go to the bench, and roster candidates in the submission
// join the game roster.
func (s *RosterService) SetSecondHalfLineup(ctx context.Context, gameID string, slots []lineup.PlannedSlot) (lineup.SecondHalfResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetSecondHalfLineup")
	defer span.End()

	g, err := s.game(ctx, gameID)
	if err != nil {
		return lineup.SecondHalfResult{}, err
	}

	current, err := s.rosterRepo.ListByGame(ctx, gameID)
	if err != nil {
		return lineup.SecondHalfResult{}, fmt.Errorf("list game roster: %w", err)
	}

	submitted := make(map[string]string, len(slots)) // gameEventID -> position
	var result lineup.SecondHalfResult
	clock := game.Clock{Period: g.Phase.Period()}

	for _, slot := range slots {
		if slot.Player.Kind == roster.RefGameEntry {
			submitted[slot.Player.GameEventID] = slot.Position
			continue
		}
		// A roster candidate entering directly in the new lineup.
		entry, err := s.AddPlayerToGameRoster(ctx, lineup.AddPlayerInput{
			GameID:               gameID,
			PlayerID:             slot.Player.PlayerID,
			ExternalPlayerName:   slot.Player.ExternalPlayerName,
			ExternalPlayerNumber: slot.Player.ExternalPlayerNumber,
			Position:             slot.Position,
		})
		if err != nil {
			return lineup.SecondHalfResult{}, err
		}
		result.SubsIn = append(result.SubsIn, entry)
	}

	for _, e := range current {
		newPos, keep := submitted[e.GameEventID]
		switch {
		case keep && newPos != e.Position:
			updated, err := s.UpdatePosition(ctx, e.GameEventID, newPos)
			if err != nil {
				return lineup.SecondHalfResult{}, err
			}
			if !e.OnField() {
				result.SubsIn = append(result.SubsIn, updated)
				s.recordEvent(ctx, game.MatchEvent{
					GameID: gameID, Type: game.EventSubstitutionIn, Period: clock.Period,
					PlayerID: updated.PlayerID, PlayerName: roster.RefFromEntry(updated).Name, Position: newPos,
				})
			}
		case !keep && e.OnField():
			benched, err := s.UpdatePosition(ctx, e.GameEventID, "")
			if err != nil {
				return lineup.SecondHalfResult{}, err
			}
			result.SubsOut = append(result.SubsOut, benched)
			s.recordEvent(ctx, game.MatchEvent{
				GameID: gameID, Type: game.EventSubstitutionOut, Period: clock.Period,
				PlayerID: benched.PlayerID, PlayerName: roster.RefFromEntry(benched).Name, Position: e.Position,
			})
		}
	}

	return result, nil
}

// SwapPositions exchanges the positions of two entries server-side and
// records the paired position-change events.
func (s *RosterService) SwapPositions(ctx context.Context, input lineup.SwapInput) ([]roster.GameRosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SwapPositions")
	defer span.End()

	e1, ok, err := s.rosterRepo.GetEntry(ctx, input.Player1EventID)
	if err != nil {
		return nil, fmt.Errorf("get first entry: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: roster entry=%s", ErrNotFound, input.Player1EventID)
	}
	e2, ok, err := s.rosterRepo.GetEntry(ctx, input.Player2EventID)
	if err != nil {
		return nil, fmt.Errorf("get second entry: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: roster entry=%s", ErrNotFound, input.Player2EventID)
	}
	if !e1.OnField() || !e2.OnField() {
		return nil, fmt.Errorf("%w: both players need an assigned position to swap", ErrInvalidInput)
	}

	u1, err := s.RecordPositionChange(ctx, lineup.PositionChangeInput{
		GameID: input.GameID, PlayerEventID: e1.GameEventID, NewPosition: e2.Position,
		Clock: input.Clock, Reason: "swap",
	})
	if err != nil {
		return nil, err
	}
	u2, err := s.RecordPositionChange(ctx, lineup.PositionChangeInput{
		GameID: input.GameID, PlayerEventID: e2.GameEventID, NewPosition: e1.Position,
		Clock: input.Clock, Reason: "swap",
	})
	if err != nil {
		return nil, err
	}

	return []roster.GameRosterEntry{u1, u2}, nil
}

// BatchLineupChanges applies substitutions then swaps in one call.
func (s *RosterService) BatchLineupChanges(ctx context.Context, input lineup.BatchInput) ([]roster.GameRosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.BatchLineupChanges")
	defer span.End()

	out := make([]roster.GameRosterEntry, 0, len(input.Substitutions)+2*len(input.Swaps))
	for _, sub := range input.Substitutions {
		sub.GameID = input.GameID
		entry, err := s.SubstitutePlayer(ctx, sub)
		if err != nil {
			return out, err
		}
		out = append(out, entry)
	}
	for _, sw := range input.Swaps {
		sw.GameID = input.GameID
		entries, err := s.SwapPositions(ctx, sw)
		if err != nil {
			return out, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// RefetchRoster reloads the current roster snapshot.
func (s *RosterService) RefetchRoster(ctx context.Context, gameID string) ([]roster.GameRosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RefetchRoster")
	defer span.End()

	entries, err := s.rosterRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("refetch roster: %w", err)
	}
	return entries, nil
}

func (s *RosterService) game(ctx context.Context, gameID string) (game.Game, error) {
	if strings.TrimSpace(gameID) == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !ok {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return g, nil
}

// fieldRef puts the referenced player on the field at position, creating a
// game roster entry when the ref is a roster candidate.
func (s *RosterService) fieldRef(ctx context.Context, gameID string, ref roster.PlayerRef, position string) (roster.GameRosterEntry, error) {
	if ref.Kind == roster.RefGameEntry {
		return s.UpdatePosition(ctx, ref.GameEventID, position)
	}
	return s.AddPlayerToGameRoster(ctx, lineup.AddPlayerInput{
		GameID:               gameID,
		PlayerID:             ref.PlayerID,
		ExternalPlayerName:   ref.ExternalPlayerName,
		ExternalPlayerNumber: ref.ExternalPlayerNumber,
		Position:             position,
	})
}

func (s *RosterService) recordEvent(ctx context.Context, ev game.MatchEvent) {
	eventID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate match event id failed", "error", err)
		return
	}
	ev.ID = eventID
	ev.OurTeam = true
	ev.RecordedAt = s.now().UTC()

	if err := s.eventRepo.Insert(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "record match event failed", "type", ev.Type, "error", err)
		return
	}
	if s.publisher != nil {
		event := ev
		s.publisher.Publish(ctx, game.FeedEnvelope{GameID: event.GameID, Action: game.FeedCreated, Event: &event})
	}
}
