package httpapi

import (
	"net/http"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/lineup"
)

type gameRosterDTO struct {
	OnField   []rosterEntryDTO `json:"onField"`
	Bench     []rosterEntryDTO `json:"bench"`
	Available []playerDTO      `json:"available"`
}

func (h *Handler) GetGameRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameRoster")
	defer span.End()

	gameID := r.PathValue("gameID")
	view, err := h.rosters.View(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game roster failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := gameRosterDTO{
		OnField:   make([]rosterEntryDTO, 0, len(view.OnField)),
		Bench:     make([]rosterEntryDTO, 0, len(view.Bench)),
		Available: make([]playerDTO, 0, len(view.Available)),
	}
	for _, e := range view.OnField {
		out.OnField = append(out.OnField, entryToDTO(ctx, e))
	}
	for _, e := range view.Bench {
		out.Bench = append(out.Bench, entryToDTO(ctx, e))
	}
	for _, p := range view.Available {
		out.Available = append(out.Available, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AddPlayerToGameRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayerToGameRoster")
	defer span.End()

	var req addGamePlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	entry, err := h.rosters.AddPlayerToGameRoster(ctx, lineup.AddPlayerInput{
		GameID:               gameID,
		PlayerID:             req.PlayerID,
		ExternalPlayerName:   req.ExternalPlayerName,
		ExternalPlayerNumber: req.ExternalPlayerNumber,
		Position:             req.Position,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add player to game roster failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(ctx, entry))
}

func (h *Handler) SubstitutePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubstitutePlayer")
	defer span.End()

	var req substitutionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	in, err := h.rosters.RosterEntry(ctx, req.PlayerInEventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.rosters.SubstitutePlayer(ctx, lineup.SubstituteInput{
		GameID:           gameID,
		PlayerOutEventID: req.PlayerOutEventID,
		PlayerIn:         roster.RefFromEntry(in),
		Clock:            game.Clock{Period: req.Period, PeriodSecond: req.PeriodSecond},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "substitution failed", "game_id", gameID, "out", req.PlayerOutEventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(ctx, entry))
}

func (h *Handler) RecordPositionChange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordPositionChange")
	defer span.End()

	var req positionChangeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	entry, err := h.rosters.RecordPositionChange(ctx, lineup.PositionChangeInput{
		GameID:        gameID,
		PlayerEventID: req.PlayerEventID,
		NewPosition:   req.NewPosition,
		Clock:         game.Clock{Period: req.Period, PeriodSecond: req.PeriodSecond},
		Reason:        req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "position change failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(ctx, entry))
}

func (h *Handler) SwapPositions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapPositions")
	defer span.End()

	var req swapRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	entries, err := h.rosters.SwapPositions(ctx, lineup.SwapInput{
		GameID:         gameID,
		Player1EventID: req.Player1EventID,
		Player2EventID: req.Player2EventID,
		Clock:          game.Clock{Period: req.Period, PeriodSecond: req.PeriodSecond},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "swap positions failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryToDTO(ctx, e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RemoveFromLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveFromLineup")
	defer span.End()

	gameEventID := r.PathValue("gameEventID")
	if err := h.rosters.RemoveFromLineup(ctx, gameEventID); err != nil {
		h.logger.WarnContext(ctx, "remove from lineup failed", "game_event_id", gameEventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nil)
}

type addGamePlayerRequest struct {
	PlayerID             string `json:"playerId"`
	ExternalPlayerName   string `json:"externalPlayerName"`
	ExternalPlayerNumber string `json:"externalPlayerNumber"`
	Position             string `json:"position"`
}

type substitutionRequest struct {
	PlayerOutEventID string `json:"playerOutEventId" validate:"required"`
	PlayerInEventID  string `json:"playerInEventId" validate:"required"`
	Period           int    `json:"period" validate:"min=1,max=2"`
	PeriodSecond     int    `json:"periodSecond" validate:"min=0"`
}

type positionChangeRequest struct {
	PlayerEventID string `json:"playerEventId" validate:"required"`
	NewPosition   string `json:"newPosition" validate:"required"`
	Period        int    `json:"period" validate:"min=1,max=2"`
	PeriodSecond  int    `json:"periodSecond" validate:"min=0"`
	Reason        string `json:"reason"`
}

type swapRequest struct {
	Player1EventID string `json:"player1EventId" validate:"required"`
	Player2EventID string `json:"player2EventId" validate:"required"`
	Period         int    `json:"period" validate:"min=1,max=2"`
	PeriodSecond   int    `json:"periodSecond" validate:"min=0"`
}
