package httpapi

import (
	"net/http"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/usecase"
)

func (h *Handler) RecordGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGoal")
	defer span.End()

	var req recordGoalRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	ev, err := h.goals.RecordGoal(ctx, usecase.RecordGoalInput{
		GameID:        gameID,
		OurTeam:       req.OurTeam,
		Clock:         game.Clock{Period: req.Period, PeriodSecond: req.PeriodSecond},
		ScorerEventID: req.ScorerEventID,
		ScorerJersey:  req.ScorerJersey,
		AssistEventID: req.AssistEventID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record goal failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, eventToDTO(ctx, ev))
}

func (h *Handler) EditGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditGoal")
	defer span.End()

	var req editGoalRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	eventID := r.PathValue("eventID")
	ev, err := h.goals.EditGoal(ctx, usecase.EditGoalInput{
		EventID:       eventID,
		Clock:         game.Clock{Period: req.Period, PeriodSecond: req.PeriodSecond},
		ScorerEventID: req.ScorerEventID,
		AssistEventID: req.AssistEventID,
		ClearAssist:   req.ClearAssist,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "edit goal failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(ctx, ev))
}

// GetTimeline returns the optimistic timeline, which may include provisional
// entries not yet confirmed by the store.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTimeline")
	defer span.End()

	gameID := r.PathValue("gameID")
	items := make([]matchEventDTO, 0)
	for _, ev := range h.goals.Timeline() {
		if ev.GameID != gameID {
			continue
		}
		items = append(items, eventToDTO(ctx, ev))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type recordGoalRequest struct {
	OurTeam       bool   `json:"ourTeam"`
	Period        int    `json:"period" validate:"min=1,max=2"`
	PeriodSecond  int    `json:"periodSecond" validate:"min=0"`
	ScorerEventID string `json:"scorerEventId"`
	ScorerJersey  string `json:"scorerJersey"`
	AssistEventID string `json:"assistEventId"`
}

type editGoalRequest struct {
	Period        int    `json:"period" validate:"min=1,max=2"`
	PeriodSecond  int    `json:"periodSecond" validate:"min=0"`
	ScorerEventID string `json:"scorerEventId"`
	AssistEventID string `json:"assistEventId"`
	ClearAssist   bool   `json:"clearAssist"`
}
