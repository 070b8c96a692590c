package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchdayhq/matchday/internal/domain/formation"
	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/infrastructure/gamefeed"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/memory"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type apiFixture struct {
	router http.Handler
	broker *gamefeed.Broker
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	teamRepo := memory.NewTeamRepository([]team.Team{
		{ID: "team-1", Name: "Westside Thunder", AgeGroup: "U12", TeamSize: 9},
	})
	gameRepo := memory.NewGameRepository([]game.Game{
		{
			ID:            "game-1",
			TeamID:        "team-1",
			Opponent:      "Riverside Rapids",
			KickoffAt:     time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC),
			Phase:         game.PhasePreGame,
			FormationCode: "3-3-2",
			StatsLevel:    game.StatsFull,
		},
	})
	playerRepo := memory.NewPlayerRepository([]roster.Player{
		{ID: "p-1", TeamID: "team-1", JerseyNumber: "10", FirstName: "Alex", LastName: "Kim"},
		{ID: "p-2", TeamID: "team-1", JerseyNumber: "8", FirstName: "Riley", LastName: "Cho"},
	})
	rosterRepo := memory.NewRosterRepository(nil)
	eventRepo := memory.NewEventRepository()

	gen := idgen.NewRandomGenerator()
	rosters := usecase.NewRosterService(rosterRepo, playerRepo, gameRepo, eventRepo, gen, logger)
	engine := usecase.NewLineupService(rosters, logger)
	formations := usecase.NewFormationService(formation.DefaultCatalog(), gameRepo, eventRepo, gen, logger)
	sessions := usecase.NewSessionRegistry(gameRepo, rosterRepo, playerRepo, engine, formations, gen, nil, logger)
	goals := usecase.NewGoalService(gameRepo, eventRepo, rosterRepo, usecase.NewOptimisticTimeline(), gen, logger)
	games := usecase.NewGameService(gameRepo, eventRepo, gen, nil, logger)

	broker, err := gamefeed.NewBroker(2, 16, logger)
	if err != nil {
		t.Fatalf("create broker: %v", err)
	}
	t.Cleanup(broker.Close)

	handler := NewHandler(sessions, rosters, goals, games, formations, teamRepo, gameRepo, eventRepo, playerRepo, broker, logger)
	return &apiFixture{
		router: NewRouter(handler, logger, []string{"*"}),
		broker: broker,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v (body: %s)", err, rec.Body.String())
	}
	return envelope.Data
}

func TestAPI_PreGameAssignmentFlow(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/games/game-1/session", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("open session: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	view := decodeData[sessionViewDTO](t, rec)
	if view.Phase != "PRE_GAME" {
		t.Fatalf("expected PRE_GAME phase, got %s", view.Phase)
	}

	rec = f.do(t, http.MethodPost, "/v1/games/game-1/session/clicks/position", `{"position":"GK"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("click position: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	view = decodeData[sessionViewDTO](t, rec)
	if view.Selection == nil || view.Selection.Position != "GK" {
		t.Fatalf("expected GK selected, got %+v", view.Selection)
	}

	rec = f.do(t, http.MethodPost, "/v1/games/game-1/session/clicks/player", `{"key":"p-1","source":"roster"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("click player: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	view = decodeData[sessionViewDTO](t, rec)
	if view.Selection != nil {
		t.Fatalf("expected idle selection after assignment, got %+v", view.Selection)
	}
	if len(view.OnField) != 1 || view.OnField[0].Position != "GK" || view.OnField[0].PlayerID != "p-1" {
		t.Fatalf("expected p-1 at GK, got %+v", view.OnField)
	}

	rec = f.do(t, http.MethodGet, "/v1/games/game-1/roster", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get roster: expected 200, got %d", rec.Code)
	}
	gameRoster := decodeData[gameRosterDTO](t, rec)
	if len(gameRoster.OnField) != 1 {
		t.Fatalf("expected 1 fielded entry, got %d", len(gameRoster.OnField))
	}
	for _, p := range gameRoster.Available {
		if p.ID == "p-1" {
			t.Fatalf("p-1 should no longer be available")
		}
	}
}

func TestAPI_RecordGoalUpdatesScore(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/v1/games/game-1/session", "")
	f.do(t, http.MethodPost, "/v1/games/game-1/session/clicks/position", `{"position":"ST"}`)
	f.do(t, http.MethodPost, "/v1/games/game-1/session/clicks/player", `{"key":"p-1","source":"roster"}`)

	rec := f.do(t, http.MethodGet, "/v1/games/game-1/roster", "")
	gameRoster := decodeData[gameRosterDTO](t, rec)
	if len(gameRoster.OnField) != 1 {
		t.Fatalf("expected 1 fielded entry, got %d", len(gameRoster.OnField))
	}
	scorer := gameRoster.OnField[0].GameEventID

	rec = f.do(t, http.MethodPost, "/v1/games/game-1/goals",
		`{"ourTeam":true,"period":1,"periodSecond":120,"scorerEventId":"`+scorer+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record goal: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	goal := decodeData[matchEventDTO](t, rec)
	if goal.Type != "GOAL" || goal.PlayerID != "p-1" {
		t.Fatalf("unexpected goal event: %+v", goal)
	}

	rec = f.do(t, http.MethodGet, "/v1/games/game-1", "")
	g := decodeData[gameDTO](t, rec)
	if g.HomeScore != 1 || g.AwayScore != 0 {
		t.Fatalf("expected score 1-0, got %d-%d", g.HomeScore, g.AwayScore)
	}

	rec = f.do(t, http.MethodGet, "/v1/games/game-1/timeline", "")
	timeline := decodeData[[]matchEventDTO](t, rec)
	if len(timeline) != 1 {
		t.Fatalf("expected 1 timeline event, got %d", len(timeline))
	}
}

func TestAPI_AdvanceGamePhase(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/games/game-1/phase", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("advance phase: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	result := decodeData[gamePhaseDTO](t, rec)
	if result.Game.Phase != "FIRST_HALF" {
		t.Fatalf("expected FIRST_HALF, got %s", result.Game.Phase)
	}
	if result.Event.Type != "PERIOD_START" || result.Event.Period != 1 {
		t.Fatalf("unexpected period event: %+v", result.Event)
	}

	rec = f.do(t, http.MethodGet, "/v1/games/game-1/events", "")
	events := decodeData[[]matchEventDTO](t, rec)
	if len(events) != 1 || events[0].Type != "PERIOD_START" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestAPI_SessionNotOpen(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/games/game-1/session", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without an open session, got %d", rec.Code)
	}
}

func TestAPI_FeedIngestAndPoll(t *testing.T) {
	f := newAPIFixture(t)

	type pollResult struct {
		rec *httptest.ResponseRecorder
	}
	done := make(chan pollResult, 1)
	go func() {
		done <- pollResult{rec: f.do(t, http.MethodGet, "/v1/games/game-1/feed?waitMs=2000", "")}
	}()

	// Let the long-poll subscribe before publishing.
	time.Sleep(100 * time.Millisecond)

	rec := f.do(t, http.MethodPost, "/v1/feed",
		`{"gameId":"game-1","action":"Created","event":{"id":"ev-1","gameId":"game-1","type":"GOAL","period":1,"periodSecond":300,"ourTeam":true}}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("ingest feed: expected 202, got %d (%s)", rec.Code, rec.Body.String())
	}

	select {
	case result := <-done:
		if result.rec.Code != http.StatusOK {
			t.Fatalf("poll feed: expected 200, got %d", result.rec.Code)
		}
		items := decodeData[[]feedEnvelopeDTO](t, result.rec)
		if len(items) != 1 {
			t.Fatalf("expected 1 envelope, got %d (%s)", len(items), result.rec.Body.String())
		}
		if items[0].Action != "Created" || items[0].Event == nil || items[0].Event.ID != "ev-1" {
			t.Fatalf("unexpected envelope: %+v", items[0])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for long-poll response")
	}
}

func TestAPI_ListFormationsBySize(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/formations?players=9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	items := decodeData[[]formationDTO](t, rec)
	if len(items) == 0 {
		t.Fatal("expected at least one 9v9 formation")
	}
	for _, item := range items {
		if item.PlayersPerTeam != 9 {
			t.Fatalf("expected only 9v9 formations, got %+v", item)
		}
	}
}
