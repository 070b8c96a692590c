package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/lineup"
)

// CommitResult summarizes a committed queue.
type CommitResult struct {
	Applied int
	Skipped []lineup.StaleItem
	Roster  []roster.GameRosterEntry
}

// LineupService is the execution engine: it takes resolved changes (from the
// selection machine) or a whole queue and commits them through the
// transport, in the mode the game phase calls for.
type LineupService struct {
	transport lineup.Transport
	logger    *slog.Logger
}

func NewLineupService(transport lineup.Transport, logger *slog.Logger) *LineupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LineupService{transport: transport, logger: logger}
}

// ApplyChange commits one change immediately, choosing the plain pre-game
// mutation or the clock-stamped live variant from the game phase.
func (s *LineupService) ApplyChange(ctx context.Context, g game.Game, clock game.Clock, change lineup.Change) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.ApplyChange")
	defer span.End()

	switch c := change.(type) {
	case lineup.Assignment:
		return s.applyAssignment(ctx, g, clock, c)

	case lineup.PositionChange:
		if g.Phase.Live() {
			_, err := s.transport.RecordPositionChange(ctx, lineup.PositionChangeInput{
				GameID: g.ID, PlayerEventID: c.Player.GameEventID, NewPosition: c.To,
				Clock: clock, Reason: "tactical",
			})
			return err
		}
		_, err := s.transport.UpdatePosition(ctx, c.Player.GameEventID, c.To)
		return err

	case lineup.Swap:
		if g.Phase.Live() {
			_, err := s.transport.SwapPositions(ctx, lineup.SwapInput{
				GameID: g.ID, Player1EventID: c.Player1.GameEventID, Player2EventID: c.Player2.GameEventID,
				Clock: clock,
			})
			return err
		}
		return s.swapWithCompensation(ctx, c)

	case lineup.Removal:
		return s.transport.RemoveFromLineup(ctx, c.Player.GameEventID)
	}

	return fmt.Errorf("%w: unsupported change type %T", ErrInvalidInput, change)
}

func (s *LineupService) applyAssignment(ctx context.Context, g game.Game, clock game.Clock, c lineup.Assignment) error {
	if c.Replacing != nil {
		if g.Phase.Live() {
			_, err := s.transport.SubstitutePlayer(ctx, lineup.SubstituteInput{
				GameID: g.ID, PlayerOutEventID: c.Replacing.GameEventID, PlayerIn: c.Player, Clock: clock,
			})
			return err
		}
		if _, err := s.transport.UpdatePosition(ctx, c.Replacing.GameEventID, ""); err != nil {
			return fmt.Errorf("bench replaced player: %w", err)
		}
	}

	if c.Player.Kind == roster.RefGameEntry {
		_, err := s.transport.UpdatePosition(ctx, c.Player.GameEventID, c.Position)
		return err
	}
	_, err := s.transport.AddPlayerToGameRoster(ctx, lineup.AddPlayerInput{
		GameID:               g.ID,
		PlayerID:             c.Player.PlayerID,
		ExternalPlayerName:   c.Player.ExternalPlayerName,
		ExternalPlayerNumber: c.Player.ExternalPlayerNumber,
		Position:             c.Position,
	})
	return err
}

// swapWithCompensation runs the two-step pre-game swap: player1 takes
// player2's position, then player2 takes player1's. When the second leg
// fails the first is reverted best-effort before the error surfaces; a
// failed revert leaves the lineup inconsistent and is only logged.
func (s *LineupService) swapWithCompensation(ctx context.Context, c lineup.Swap) error {
	if c.Player1Position == "" || c.Player2Position == "" {
		return fmt.Errorf("%w: %v", ErrInvalidInput, lineup.ErrSwapNeedsPositions)
	}

	if _, err := s.transport.UpdatePosition(ctx, c.Player1.GameEventID, c.Player2Position); err != nil {
		return fmt.Errorf("swap first leg: %w", err)
	}

	if _, err := s.transport.UpdatePosition(ctx, c.Player2.GameEventID, c.Player1Position); err != nil {
		if _, revertErr := s.transport.UpdatePosition(ctx, c.Player1.GameEventID, c.Player1Position); revertErr != nil {
			s.logger.ErrorContext(ctx, "swap compensation failed, lineup left inconsistent",
				"player1", c.Player1.GameEventID, "error", revertErr)
		}
		return fmt.Errorf("swap second leg: %w", err)
	}

	return nil
}

// CommitHalftime replays the queue against the current on-field snapshot and
// submits the result as one batched lineup call. Stale items are skipped
// with a warning, never fatal. On success the queue is cleared.
func (s *LineupService) CommitHalftime(ctx context.Context, g game.Game, onField []roster.GameRosterEntry, queue *lineup.Queue) (CommitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.CommitHalftime")
	defer span.End()

	items := queue.Items()
	plan := lineup.ApplyToLineup(onField, items)
	for _, stale := range plan.Stale {
		s.logger.WarnContext(ctx, "skipping stale queued change",
			"game_id", g.ID, "item_id", stale.Item.ID, "reason", stale.Reason)
	}

	if _, err := s.transport.SetSecondHalfLineup(ctx, g.ID, plan.Slots); err != nil {
		return CommitResult{}, fmt.Errorf("set second half lineup: %w", err)
	}

	for _, ref := range plan.BenchAdds {
		if _, err := s.transport.AddPlayerToGameRoster(ctx, lineup.AddPlayerInput{
			GameID:               g.ID,
			PlayerID:             ref.PlayerID,
			ExternalPlayerName:   ref.ExternalPlayerName,
			ExternalPlayerNumber: ref.ExternalPlayerNumber,
		}); err != nil {
			return CommitResult{}, fmt.Errorf("add queued bench player: %w", err)
		}
	}

	queue.Clear()
	refreshed, err := s.transport.RefetchRoster(ctx, g.ID)
	if err != nil {
		return CommitResult{}, fmt.Errorf("refetch after commit: %w", err)
	}

	return CommitResult{Applied: len(items) - len(plan.Stale), Skipped: plan.Stale, Roster: refreshed}, nil
}

// CommitPreGame submits each queued item as its own mutation, strictly in
// queue order. On failure the already-succeeded prefix is removed from the
// queue, so retrying the confirm does not re-submit it; the failed item and
// everything after stay queued.
func (s *LineupService) CommitPreGame(ctx context.Context, g game.Game, queue *lineup.Queue) (CommitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.CommitPreGame")
	defer span.End()

	items := queue.Items()
	for i, item := range items {
		if err := s.ApplyChange(ctx, g, game.Clock{}, item.Change); err != nil {
			for _, done := range items[:i] {
				queue.Remove(done.ID)
			}
			return CommitResult{Applied: i}, fmt.Errorf("apply queued change %s: %w", item.ID, err)
		}
	}

	queue.Clear()
	refreshed, err := s.transport.RefetchRoster(ctx, g.ID)
	if err != nil {
		return CommitResult{}, fmt.Errorf("refetch after commit: %w", err)
	}

	return CommitResult{Applied: len(items), Roster: refreshed}, nil
}

// KeepSameLineup submits the current on-field list unchanged as the lineup
// for the next period. At least one player must be on the field.
func (s *LineupService) KeepSameLineup(ctx context.Context, g game.Game, onField []roster.GameRosterEntry) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.KeepSameLineup")
	defer span.End()

	if len(onField) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, lineup.ErrEmptyLineup)
	}

	slots := make([]lineup.PlannedSlot, 0, len(onField))
	for _, e := range onField {
		slots = append(slots, lineup.PlannedSlot{Position: e.Position, Player: roster.RefFromEntry(e)})
	}
	if _, err := s.transport.SetSecondHalfLineup(ctx, g.ID, slots); err != nil {
		return fmt.Errorf("keep same lineup: %w", err)
	}
	return nil
}

// ApplyReassignments commits a completed reassignment choice set: the
// auditable clock-stamped variant when the game is live, plain position
// updates pre-game.
func (s *LineupService) ApplyReassignments(ctx context.Context, g game.Game, clock game.Clock, r *lineup.Reassignment) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.ApplyReassignments")
	defer span.End()

	changes, err := r.Changes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, c := range changes {
		if g.Phase.Live() {
			if _, err := s.transport.RecordPositionChange(ctx, lineup.PositionChangeInput{
				GameID: g.ID, PlayerEventID: c.Player.GameEventID, NewPosition: c.To,
				Clock: clock, Reason: "formation change",
			}); err != nil {
				return fmt.Errorf("reassign %s: %w", c.Player.GameEventID, err)
			}
			continue
		}
		if _, err := s.transport.UpdatePosition(ctx, c.Player.GameEventID, c.To); err != nil {
			return fmt.Errorf("reassign %s: %w", c.Player.GameEventID, err)
		}
	}

	return nil
}

// Refetch reloads the roster snapshot through the transport.
func (s *LineupService) Refetch(ctx context.Context, gameID string) ([]roster.GameRosterEntry, error) {
	return s.transport.RefetchRoster(ctx, gameID)
}
