package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/domain/game"
	qb "github.com/matchdayhq/matchday/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

var gameSelectColumns = []string{
	"id",
	"public_id",
	"team_public_id",
	"opponent",
	"kickoff_at",
	"phase",
	"formation_code",
	"stats_level",
	"home_score",
	"away_score",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListByTeam(ctx context.Context, teamID string) ([]game.Game, error) {
	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by team query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by team: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) Update(ctx context.Context, g game.Game) error {
	query, args, err := qb.Update("games").
		Set("phase", string(g.Phase)).
		Set("formation_code", g.FormationCode).
		Set("stats_level", string(g.StatsLevel)).
		Set("home_score", g.HomeScore).
		Set("away_score", g.AwayScore).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", g.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:            row.PublicID,
		TeamID:        row.TeamID,
		Opponent:      row.Opponent,
		KickoffAt:     row.KickoffAt,
		Phase:         game.Phase(row.Phase),
		FormationCode: row.FormationCode,
		StatsLevel:    game.StatsTrackingLevel(row.StatsLevel),
		HomeScore:     row.HomeScore,
		AwayScore:     row.AwayScore,
	}
}
