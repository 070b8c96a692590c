package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/lineup"
	"github.com/matchdayhq/matchday/internal/usecase"
)

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenSession")
	defer span.End()

	gameID := r.PathValue("gameID")
	session, err := h.sessions.Open(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "open session failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, session.View()))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, session.View()))
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseSession")
	defer span.End()

	h.sessions.Close(r.PathValue("gameID"))
	writeSuccess(ctx, w, http.StatusOK, nil)
}

func (h *Handler) ClickPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClickPosition")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req clickPositionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.ClickPosition(ctx, req.Position)
	if err != nil {
		h.logger.WarnContext(ctx, "click position failed", "game_id", session.View().GameID, "position", req.Position, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) ClickPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClickPlayer")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req clickPlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	source, err := parseSource(req.Source)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.ClickPlayer(ctx, req.Key, source)
	if err != nil {
		h.logger.WarnContext(ctx, "click player failed", "key", req.Key, "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) AddToBench(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddToBench")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req clickPlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	source, err := parseSource(req.Source)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.AddToBench(ctx, req.Key, source)
	if err != nil {
		h.logger.WarnContext(ctx, "add to bench failed", "key", req.Key, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) RemoveQueuedChange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveQueuedChange")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.RemoveQueued(r.PathValue("itemID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) ClearQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearQueue")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.ClearQueue()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSession")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.Cancel()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmSession")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.Confirm(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm lineup changes failed", "game_id", r.PathValue("gameID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) SetBatchMode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetBatchMode")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req batchModeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, session.SetBatchMode(req.Enabled)))
}

func (h *Handler) KeepSameLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.KeepSameLineup")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.KeepSameLineup(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "keep same lineup failed", "game_id", r.PathValue("gameID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) ChangeFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangeFormation")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req changeFormationRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.ChangeFormation(ctx, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "change formation failed", "code", req.Code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) ListEligiblePositions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEligiblePositions")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	codes, err := session.EligiblePositions(r.PathValue("gameEventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, codes)
}

func (h *Handler) ChooseReassignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChooseReassignment")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req chooseReassignmentRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.ChooseReassignment(r.PathValue("gameEventID"), req.Position)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) ConfirmReassignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmReassignments")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := session.ConfirmReassignments(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm reassignments failed", "game_id", r.PathValue("gameID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, view))
}

func (h *Handler) DismissConflict(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DismissConflict")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	session.DismissConflict(r.PathValue("eventID"))
	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(ctx, session.View()))
}

func (h *Handler) session(ctx context.Context, r *http.Request) (*usecase.Session, error) {
	gameID := strings.TrimSpace(r.PathValue("gameID"))
	session, ok := h.sessions.Get(gameID)
	if !ok {
		return nil, fmt.Errorf("%w: no open lineup session for game %s", usecase.ErrNotFound, gameID)
	}
	return session, nil
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, out any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, out)
}

func parseSource(v string) (lineup.Source, error) {
	switch lineup.Source(v) {
	case lineup.SourceOnField, lineup.SourceBench, lineup.SourceRoster:
		return lineup.Source(v), nil
	default:
		return "", fmt.Errorf("%w: unknown player source %q", usecase.ErrInvalidInput, v)
	}
}

type clickPositionRequest struct {
	Position string `json:"position" validate:"required"`
}

type clickPlayerRequest struct {
	Key    string `json:"key" validate:"required"`
	Source string `json:"source" validate:"required"`
}

type batchModeRequest struct {
	Enabled bool `json:"enabled"`
}

type changeFormationRequest struct {
	Code string `json:"code" validate:"required"`
}

type chooseReassignmentRequest struct {
	Position string `json:"position" validate:"required"`
}

type sessionViewDTO struct {
	GameID          string            `json:"gameId"`
	Phase           string            `json:"phase"`
	FormationCode   string            `json:"formationCode"`
	BatchMode       bool              `json:"batchMode"`
	Executing       bool              `json:"executing"`
	Selection       *selectionDTO     `json:"selection,omitempty"`
	OnField         []rosterEntryDTO  `json:"onField"`
	Bench           []rosterEntryDTO  `json:"bench"`
	Available       []playerDTO       `json:"available"`
	Queue           []queuedChangeDTO `json:"queue"`
	QueuedPositions []string          `json:"queuedPositions"`
	QueuedPlayers   []string          `json:"queuedPlayers"`
	FilledCount     int               `json:"filledCount"`
	FilledPositions []string          `json:"filledPositions"`
	Reassignment    *reassignmentDTO  `json:"reassignment,omitempty"`
	Conflicts       []conflictDTO     `json:"conflicts"`
}

type selectionDTO struct {
	Direction string        `json:"direction"`
	Position  string        `json:"position,omitempty"`
	Player    *playerRefDTO `json:"player,omitempty"`
	Source    string        `json:"source,omitempty"`
}

type playerRefDTO struct {
	Kind        string `json:"kind"`
	GameEventID string `json:"gameEventId,omitempty"`
	PlayerID    string `json:"playerId,omitempty"`
	Name        string `json:"name"`
	Jersey      string `json:"jersey,omitempty"`
	Position    string `json:"position,omitempty"`
}

type queuedChangeDTO struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Position  string        `json:"position,omitempty"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
	Player    *playerRefDTO `json:"player,omitempty"`
	Player2   *playerRefDTO `json:"player2,omitempty"`
	Replacing *playerRefDTO `json:"replacing,omitempty"`
	Source    string        `json:"source,omitempty"`
}

type reassignmentDTO struct {
	NewFormationCode string             `json:"newFormationCode"`
	ToReassign       []flaggedPlayerDTO `json:"toReassign"`
	Mapping          map[string]string  `json:"mapping"`
	Complete         bool               `json:"complete"`
}

type flaggedPlayerDTO struct {
	Entry       rosterEntryDTO `json:"entry"`
	OldPosition string         `json:"oldPosition"`
}

type conflictDTO struct {
	GameID      string `json:"gameId"`
	EventID     string `json:"eventId"`
	Description string `json:"description"`
}

func sessionViewToDTO(ctx context.Context, view usecase.SessionView) sessionViewDTO {
	ctx, span := startSpan(ctx, "httpapi.sessionViewToDTO")
	defer span.End()

	onField := make([]rosterEntryDTO, 0, len(view.OnField))
	for _, e := range view.OnField {
		onField = append(onField, entryToDTO(ctx, e))
	}
	bench := make([]rosterEntryDTO, 0, len(view.Bench))
	for _, e := range view.Bench {
		bench = append(bench, entryToDTO(ctx, e))
	}
	available := make([]playerDTO, 0, len(view.Available))
	for _, p := range view.Available {
		available = append(available, playerToDTO(ctx, p))
	}
	queue := make([]queuedChangeDTO, 0, len(view.Queue))
	for _, item := range view.Queue {
		queue = append(queue, queuedItemToDTO(ctx, item))
	}
	conflicts := make([]conflictDTO, 0, len(view.Conflicts))
	for _, c := range view.Conflicts {
		conflicts = append(conflicts, conflictDTO{GameID: c.GameID, EventID: c.EventID, Description: c.Description})
	}

	out := sessionViewDTO{
		GameID:          view.GameID,
		Phase:           string(view.Phase),
		FormationCode:   view.FormationCode,
		BatchMode:       view.BatchMode,
		Executing:       view.Executing,
		OnField:         onField,
		Bench:           bench,
		Available:       available,
		Queue:           queue,
		QueuedPositions: sortedKeys(view.QueuedPositions),
		QueuedPlayers:   sortedKeys(view.QueuedPlayers),
		FilledCount:     view.FilledCount,
		FilledPositions: view.FilledPositions,
		Conflicts:       conflicts,
	}

	if !view.Selection.Idle() {
		sel := selectionDTO{
			Direction: string(view.Selection.Direction),
			Position:  view.Selection.Position,
			Source:    string(view.Selection.Source),
		}
		if view.Selection.Direction == lineup.DirectionPlayerFirst {
			ref := refToDTO(ctx, view.Selection.Player)
			sel.Player = &ref
		}
		out.Selection = &sel
	}

	if view.Reassignment != nil {
		flagged := make([]flaggedPlayerDTO, 0, len(view.Reassignment.ToReassign))
		for _, f := range view.Reassignment.ToReassign {
			flagged = append(flagged, flaggedPlayerDTO{
				Entry:       entryToDTO(ctx, f.Player),
				OldPosition: f.OldPosition,
			})
		}
		out.Reassignment = &reassignmentDTO{
			NewFormationCode: view.Reassignment.NewFormationCode,
			ToReassign:       flagged,
			Mapping:          view.Reassignment.Mapping,
			Complete:         view.Reassignment.Complete,
		}
	}

	return out
}

func queuedItemToDTO(ctx context.Context, item lineup.QueuedItem) queuedChangeDTO {
	ctx, span := startSpan(ctx, "httpapi.queuedItemToDTO")
	defer span.End()

	out := queuedChangeDTO{ID: item.ID}
	switch c := item.Change.(type) {
	case lineup.Assignment:
		out.Type = "ASSIGNMENT"
		out.Position = c.Position
		out.Source = string(c.Source)
		player := refToDTO(ctx, c.Player)
		out.Player = &player
		if c.Replacing != nil {
			replacing := refToDTO(ctx, *c.Replacing)
			out.Replacing = &replacing
		}
	case lineup.PositionChange:
		out.Type = "POSITION_CHANGE"
		out.From = c.From
		out.To = c.To
		player := refToDTO(ctx, c.Player)
		out.Player = &player
	case lineup.Swap:
		out.Type = "SWAP"
		out.From = c.Player1Position
		out.To = c.Player2Position
		player := refToDTO(ctx, c.Player1)
		out.Player = &player
		player2 := refToDTO(ctx, c.Player2)
		out.Player2 = &player2
	case lineup.Removal:
		out.Type = "REMOVAL"
		out.Position = c.Position
		player := refToDTO(ctx, c.Player)
		out.Player = &player
	}
	return out
}

func refToDTO(ctx context.Context, ref roster.PlayerRef) playerRefDTO {
	ctx, span := startSpan(ctx, "httpapi.refToDTO")
	defer span.End()

	return playerRefDTO{
		Kind:        string(ref.Kind),
		GameEventID: ref.GameEventID,
		PlayerID:    ref.PlayerID,
		Name:        ref.Name,
		Jersey:      ref.Jersey,
		Position:    ref.Position,
	}
}
