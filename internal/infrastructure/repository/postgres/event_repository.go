package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/domain/game"
	qb "github.com/matchdayhq/matchday/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

var matchEventSelectColumns = []string{
	"id",
	"public_id",
	"game_public_id",
	"event_type",
	"period",
	"period_second",
	"player_public_id",
	"player_name",
	"jersey",
	"assist_public_id",
	"assist_name",
	"position",
	"old_position",
	"reason",
	"our_team",
	"recorded_at",
	"created_at",
	"updated_at",
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Insert(ctx context.Context, event game.MatchEvent) error {
	query, args, err := qb.InsertInto("match_events").
		Columns("public_id", "game_public_id", "event_type", "period", "period_second",
			"player_public_id", "player_name", "jersey", "assist_public_id", "assist_name",
			"position", "old_position", "reason", "our_team", "recorded_at").
		Values(event.ID, event.GameID, string(event.Type), event.Period, event.PeriodSecond,
			event.PlayerID, event.PlayerName, event.Jersey, event.AssistID, event.AssistName,
			event.Position, event.OldPosition, event.Reason, event.OurTeam, event.RecordedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match event: %w", err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, event game.MatchEvent) (bool, error) {
	query, args, err := qb.Update("match_events").
		Set("period", event.Period).
		Set("period_second", event.PeriodSecond).
		Set("player_public_id", event.PlayerID).
		Set("player_name", event.PlayerName).
		Set("jersey", event.Jersey).
		Set("assist_public_id", event.AssistID).
		Set("assist_name", event.AssistName).
		Set("position", event.Position).
		Set("old_position", event.OldPosition).
		Set("reason", event.Reason).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", event.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update match event query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update match event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update match event rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *EventRepository) Delete(ctx context.Context, eventID string) (bool, error) {
	query, args, err := qb.DeleteFrom("match_events").
		Where(qb.Eq("public_id", eventID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete match event query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete match event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete match event rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *EventRepository) ListByGame(ctx context.Context, gameID string) ([]game.MatchEvent, error) {
	query, args, err := qb.Select(matchEventSelectColumns...).From("match_events").
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("period", "period_second", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match events: %w", err)
	}

	out := make([]game.MatchEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchEventFromRow(row))
	}
	return out, nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (game.MatchEvent, bool, error) {
	query, args, err := qb.Select(matchEventSelectColumns...).From("match_events").
		Where(qb.Eq("public_id", eventID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.MatchEvent{}, false, fmt.Errorf("build select match event query: %w", err)
	}

	var row matchEventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.MatchEvent{}, false, nil
		}
		return game.MatchEvent{}, false, fmt.Errorf("select match event: %w", err)
	}
	return matchEventFromRow(row), true, nil
}

func matchEventFromRow(row matchEventTableModel) game.MatchEvent {
	return game.MatchEvent{
		ID:           row.PublicID,
		GameID:       row.GameID,
		Type:         game.EventType(row.EventType),
		Period:       row.Period,
		PeriodSecond: row.PeriodSecond,
		PlayerID:     row.PlayerID,
		PlayerName:   row.PlayerName,
		Jersey:       row.Jersey,
		AssistID:     row.AssistID,
		AssistName:   row.AssistName,
		Position:     row.Position,
		OldPosition:  row.OldPosition,
		Reason:       row.Reason,
		OurTeam:      row.OurTeam,
		RecordedAt:   row.RecordedAt,
	}
}
