package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/matchdayhq/matchday/internal/domain/formation"
	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/infrastructure/gamefeed"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type Handler struct {
	sessions   *usecase.SessionRegistry
	rosters    *usecase.RosterService
	goals      *usecase.GoalService
	games      *usecase.GameService
	formations *usecase.FormationService
	teamRepo   team.Repository
	gameRepo   game.Repository
	eventRepo  game.EventRepository
	playerRepo roster.PlayerRepository
	feed       *gamefeed.Broker
	logger     *slog.Logger
	validator  *validator.Validate
}

func NewHandler(
	sessions *usecase.SessionRegistry,
	rosters *usecase.RosterService,
	goals *usecase.GoalService,
	games *usecase.GameService,
	formations *usecase.FormationService,
	teamRepo team.Repository,
	gameRepo game.Repository,
	eventRepo game.EventRepository,
	playerRepo roster.PlayerRepository,
	feed *gamefeed.Broker,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		sessions:   sessions,
		rosters:    rosters,
		goals:      goals,
		games:      games,
		formations: formations,
		teamRepo:   teamRepo,
		gameRepo:   gameRepo,
		eventRepo:  eventRepo,
		playerRepo: playerRepo,
		feed:       feed,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamRepo.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListGamesByTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesByTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	games, err := h.gameRepo.ListByTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(ctx, g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPlayersByTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayersByTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	players, err := h.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	g, found, err := h.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: game %s", usecase.ErrNotFound, gameID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

func (h *Handler) AdvanceGamePhase(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceGamePhase")
	defer span.End()

	gameID := r.PathValue("gameID")
	g, ev, err := h.games.AdvancePhase(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "advance game phase failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamePhaseDTO{
		Game:  gameToDTO(ctx, g),
		Event: eventToDTO(ctx, ev),
	})
}

type gamePhaseDTO struct {
	Game  gameDTO       `json:"game"`
	Event matchEventDTO `json:"event"`
}

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormations")
	defer span.End()

	req := listFormationsRequest{PlayersPerTeam: r.URL.Query().Get("players")}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	size := 0
	if _, err := fmt.Sscanf(req.PlayersPerTeam, "%d", &size); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: players must be a number", usecase.ErrInvalidInput))
		return
	}

	formations, err := h.formations.ListBySize(size)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]formationDTO, 0, len(formations))
	for _, f := range formations {
		items = append(items, formationToDTO(ctx, f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListGameEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameEvents")
	defer span.End()

	gameID := r.PathValue("gameID")
	events, err := h.eventRepo.ListByGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "list game events failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchEventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, eventToDTO(ctx, ev))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type listFormationsRequest struct {
	PlayersPerTeam string `validate:"required"`
}

type teamDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AgeGroup   string `json:"ageGroup"`
	TeamSize   int    `json:"teamSize"`
	HomeColors string `json:"homeColors"`
}

type playerDTO struct {
	ID              string `json:"id"`
	TeamID          string `json:"teamId"`
	JerseyNumber    string `json:"jerseyNumber"`
	PrimaryPosition string `json:"primaryPosition"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

type gameDTO struct {
	ID            string `json:"id"`
	TeamID        string `json:"teamId"`
	Opponent      string `json:"opponent"`
	KickoffAt     string `json:"kickoffAt"`
	Phase         string `json:"phase"`
	FormationCode string `json:"formationCode"`
	StatsLevel    string `json:"statsLevel"`
	HomeScore     int    `json:"homeScore"`
	AwayScore     int    `json:"awayScore"`
}

type formationDTO struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	PlayersPerTeam int                `json:"playersPerTeam"`
	Slots          []formationSlotDTO `json:"slots"`
}

type formationSlotDTO struct {
	Code string  `json:"code"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type rosterEntryDTO struct {
	GameEventID          string `json:"gameEventId"`
	PlayerID             string `json:"playerId,omitempty"`
	ExternalPlayerName   string `json:"externalPlayerName,omitempty"`
	ExternalPlayerNumber string `json:"externalPlayerNumber,omitempty"`
	Position             string `json:"position,omitempty"`
}

type matchEventDTO struct {
	ID           string `json:"id"`
	GameID       string `json:"gameId"`
	Type         string `json:"type"`
	Period       int    `json:"period"`
	PeriodSecond int    `json:"periodSecond"`
	PlayerID     string `json:"playerId,omitempty"`
	PlayerName   string `json:"playerName,omitempty"`
	Jersey       string `json:"jersey,omitempty"`
	AssistID     string `json:"assistId,omitempty"`
	AssistName   string `json:"assistName,omitempty"`
	Position     string `json:"position,omitempty"`
	OldPosition  string `json:"oldPosition,omitempty"`
	Reason       string `json:"reason,omitempty"`
	OurTeam      bool   `json:"ourTeam"`
	Provisional  bool   `json:"provisional"`
	RecordedAt   string `json:"recordedAt"`
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:         v.ID,
		Name:       v.Name,
		AgeGroup:   v.AgeGroup,
		TeamSize:   v.TeamSize,
		HomeColors: v.HomeColors,
	}
}

func playerToDTO(ctx context.Context, v roster.Player) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	return playerDTO{
		ID:              v.ID,
		TeamID:          v.TeamID,
		JerseyNumber:    v.JerseyNumber,
		PrimaryPosition: v.PrimaryPosition,
		FirstName:       v.FirstName,
		LastName:        v.LastName,
	}
}

func gameToDTO(ctx context.Context, v game.Game) gameDTO {
	ctx, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	return gameDTO{
		ID:            v.ID,
		TeamID:        v.TeamID,
		Opponent:      v.Opponent,
		KickoffAt:     v.KickoffAt.UTC().Format(time.RFC3339),
		Phase:         string(v.Phase),
		FormationCode: v.FormationCode,
		StatsLevel:    string(v.StatsLevel),
		HomeScore:     v.HomeScore,
		AwayScore:     v.AwayScore,
	}
}

func formationToDTO(ctx context.Context, v formation.Formation) formationDTO {
	ctx, span := startSpan(ctx, "httpapi.formationToDTO")
	defer span.End()

	slots := make([]formationSlotDTO, 0, len(v.Slots))
	for _, s := range v.Slots {
		slots = append(slots, formationSlotDTO{Code: s.Code, X: s.X, Y: s.Y})
	}

	return formationDTO{
		Code:           v.Code,
		Name:           v.Name,
		PlayersPerTeam: v.PlayersPerTeam,
		Slots:          slots,
	}
}

func entryToDTO(ctx context.Context, v roster.GameRosterEntry) rosterEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.entryToDTO")
	defer span.End()

	return rosterEntryDTO{
		GameEventID:          v.GameEventID,
		PlayerID:             v.PlayerID,
		ExternalPlayerName:   v.ExternalPlayerName,
		ExternalPlayerNumber: v.ExternalPlayerNumber,
		Position:             v.Position,
	}
}

func eventToDTO(ctx context.Context, v game.MatchEvent) matchEventDTO {
	ctx, span := startSpan(ctx, "httpapi.eventToDTO")
	defer span.End()

	return matchEventDTO{
		ID:           v.ID,
		GameID:       v.GameID,
		Type:         string(v.Type),
		Period:       v.Period,
		PeriodSecond: v.PeriodSecond,
		PlayerID:     v.PlayerID,
		PlayerName:   v.PlayerName,
		Jersey:       v.Jersey,
		AssistID:     v.AssistID,
		AssistName:   v.AssistName,
		Position:     v.Position,
		OldPosition:  v.OldPosition,
		Reason:       v.Reason,
		OurTeam:      v.OurTeam,
		Provisional:  v.Provisional,
		RecordedAt:   v.RecordedAt.UTC().Format(time.RFC3339),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
