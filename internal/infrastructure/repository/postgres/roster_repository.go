package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/domain/roster"
	qb "github.com/matchdayhq/matchday/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

var rosterEntrySelectColumns = []string{
	"id",
	"game_event_id",
	"game_public_id",
	"player_public_id",
	"external_player_name",
	"external_player_number",
	"position",
	"created_at",
	"updated_at",
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByGame(ctx context.Context, gameID string) ([]roster.GameRosterEntry, error) {
	query, args, err := qb.Select(rosterEntrySelectColumns...).From("game_roster_entries").
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select roster entries query: %w", err)
	}

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select roster entries: %w", err)
	}

	out := make([]roster.GameRosterEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, rosterEntryFromRow(row))
	}
	return out, nil
}

func (r *RosterRepository) GetEntry(ctx context.Context, gameEventID string) (roster.GameRosterEntry, bool, error) {
	query, args, err := qb.Select(rosterEntrySelectColumns...).From("game_roster_entries").
		Where(qb.Eq("game_event_id", gameEventID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return roster.GameRosterEntry{}, false, fmt.Errorf("build select roster entry query: %w", err)
	}

	var row rosterEntryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.GameRosterEntry{}, false, nil
		}
		return roster.GameRosterEntry{}, false, fmt.Errorf("select roster entry: %w", err)
	}
	return rosterEntryFromRow(row), true, nil
}

func (r *RosterRepository) Insert(ctx context.Context, entry roster.GameRosterEntry) error {
	query, args, err := qb.InsertInto("game_roster_entries").
		Columns("game_event_id", "game_public_id", "player_public_id", "external_player_name", "external_player_number", "position").
		Values(entry.GameEventID, entry.GameID, nullableString(entry.PlayerID), entry.ExternalPlayerName, entry.ExternalPlayerNumber, entry.Position).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert roster entry: %w", err)
	}
	return nil
}

func (r *RosterRepository) UpdatePosition(ctx context.Context, gameEventID, position string) (roster.GameRosterEntry, bool, error) {
	query, args, err := qb.Update("game_roster_entries").
		Set("position", position).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("game_event_id", gameEventID)).
		ToSQL()
	if err != nil {
		return roster.GameRosterEntry{}, false, fmt.Errorf("build update roster position query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return roster.GameRosterEntry{}, false, fmt.Errorf("update roster position: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return roster.GameRosterEntry{}, false, fmt.Errorf("update roster position rows affected: %w", err)
	}
	if affected == 0 {
		return roster.GameRosterEntry{}, false, nil
	}

	return r.GetEntry(ctx, gameEventID)
}

func (r *RosterRepository) Delete(ctx context.Context, gameEventID string) (bool, error) {
	query, args, err := qb.DeleteFrom("game_roster_entries").
		Where(qb.Eq("game_event_id", gameEventID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete roster entry query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete roster entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete roster entry rows affected: %w", err)
	}
	return affected > 0, nil
}

func rosterEntryFromRow(row rosterEntryTableModel) roster.GameRosterEntry {
	return roster.GameRosterEntry{
		GameEventID:          row.GameEventID,
		GameID:               row.GameID,
		PlayerID:             nullStringValue(row.PlayerID),
		ExternalPlayerName:   row.ExternalPlayerName,
		ExternalPlayerNumber: row.ExternalPlayerNumber,
		Position:             row.Position,
	}
}
