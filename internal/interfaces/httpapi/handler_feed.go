package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/usecase"
)

const (
	defaultFeedWait = 25 * time.Second
	maxFeedWait     = 60 * time.Second
)

// PollGameFeed long-polls the in-process feed for one game: it blocks until
// at least one envelope arrives or the wait expires, then returns everything
// buffered so far.
func (h *Handler) PollGameFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PollGameFeed")
	defer span.End()

	gameID := r.PathValue("gameID")
	wait := defaultFeedWait
	if raw := r.URL.Query().Get("waitMs"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			writeError(ctx, w, fmt.Errorf("%w: waitMs must be a non-negative number", usecase.ErrInvalidInput))
			return
		}
		wait = time.Duration(ms) * time.Millisecond
		if wait > maxFeedWait {
			wait = maxFeedWait
		}
	}

	ch, cancel := h.feed.Subscribe(gameID)
	defer cancel()

	items := make([]feedEnvelopeDTO, 0, 4)
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case env, ok := <-ch:
		if ok {
			items = append(items, envelopeToDTO(ctx, env))
		}
	case <-timer.C:
	case <-ctx.Done():
	}

	// Drain whatever else is already buffered before answering.
	for {
		select {
		case env, ok := <-ch:
			if !ok {
				writeSuccess(ctx, w, http.StatusOK, items)
				return
			}
			items = append(items, envelopeToDTO(ctx, env))
		default:
			writeSuccess(ctx, w, http.StatusOK, items)
			return
		}
	}
}

// IngestFeed accepts an envelope from an external recorder and publishes it
// onto the in-process feed, where sessions and forwarders pick it up.
func (h *Handler) IngestFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestFeed")
	defer span.End()

	var req feedEnvelopeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	env, err := req.toEnvelope(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.feed.Publish(ctx, env)
	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

type feedEnvelopeRequest struct {
	GameID         string         `json:"gameId" validate:"required"`
	Action         string         `json:"action" validate:"required"`
	Event          *matchEventDTO `json:"event"`
	DeletedEventID string         `json:"deletedEventId"`
	Conflict       *conflictDTO   `json:"conflict"`
}

type feedEnvelopeDTO struct {
	GameID         string         `json:"gameId"`
	Action         string         `json:"action"`
	Event          *matchEventDTO `json:"event,omitempty"`
	DeletedEventID string         `json:"deletedEventId,omitempty"`
	Conflict       *conflictDTO   `json:"conflict,omitempty"`
}

func (req feedEnvelopeRequest) toEnvelope(ctx context.Context) (game.FeedEnvelope, error) {
	switch game.FeedAction(req.Action) {
	case game.FeedCreated, game.FeedUpdated, game.FeedDeleted,
		game.FeedDuplicateDetected, game.FeedConflictDetected:
	default:
		return game.FeedEnvelope{}, fmt.Errorf("%w: unknown feed action %q", usecase.ErrInvalidInput, req.Action)
	}

	env := game.FeedEnvelope{
		GameID:         req.GameID,
		Action:         game.FeedAction(req.Action),
		DeletedEventID: req.DeletedEventID,
	}
	if req.Event != nil {
		ev, err := eventFromDTO(ctx, *req.Event)
		if err != nil {
			return game.FeedEnvelope{}, err
		}
		env.Event = &ev
	}
	if req.Conflict != nil {
		env.Conflict = &game.Conflict{
			GameID:      req.Conflict.GameID,
			EventID:     req.Conflict.EventID,
			Description: req.Conflict.Description,
		}
		if env.Conflict.GameID == "" {
			env.Conflict.GameID = req.GameID
		}
	}
	return env, nil
}

func envelopeToDTO(ctx context.Context, env game.FeedEnvelope) feedEnvelopeDTO {
	ctx, span := startSpan(ctx, "httpapi.envelopeToDTO")
	defer span.End()

	out := feedEnvelopeDTO{
		GameID:         env.GameID,
		Action:         string(env.Action),
		DeletedEventID: env.DeletedEventID,
	}
	if env.Event != nil {
		ev := eventToDTO(ctx, *env.Event)
		out.Event = &ev
	}
	if env.Conflict != nil {
		out.Conflict = &conflictDTO{
			GameID:      env.Conflict.GameID,
			EventID:     env.Conflict.EventID,
			Description: env.Conflict.Description,
		}
	}
	return out
}

func eventFromDTO(ctx context.Context, dto matchEventDTO) (game.MatchEvent, error) {
	recordedAt := time.Time{}
	if dto.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, dto.RecordedAt)
		if err != nil {
			return game.MatchEvent{}, fmt.Errorf("%w: recordedAt must be RFC 3339: %v", usecase.ErrInvalidInput, err)
		}
		recordedAt = parsed
	}

	return game.MatchEvent{
		ID:           dto.ID,
		GameID:       dto.GameID,
		Type:         game.EventType(dto.Type),
		Period:       dto.Period,
		PeriodSecond: dto.PeriodSecond,
		PlayerID:     dto.PlayerID,
		PlayerName:   dto.PlayerName,
		Jersey:       dto.Jersey,
		AssistID:     dto.AssistID,
		AssistName:   dto.AssistName,
		Position:     dto.Position,
		OldPosition:  dto.OldPosition,
		Reason:       dto.Reason,
		OurTeam:      dto.OurTeam,
		RecordedAt:   recordedAt,
	}, nil
}
