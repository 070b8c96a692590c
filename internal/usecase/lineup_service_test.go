package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/matchdayhq/matchday/internal/domain/formation"
	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/lineup"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustFormation(t *testing.T, code string) formation.Formation {
	t.Helper()
	f, ok := formation.DefaultCatalog().Get(code)
	if !ok {
		t.Fatalf("formation %s missing from catalog", code)
	}
	return f
}

func entry(id, pos string) roster.GameRosterEntry {
	return roster.GameRosterEntry{GameEventID: id, GameID: "game-1", PlayerID: "p-" + id, Position: pos}
}

func preGame() game.Game {
	return game.Game{ID: "game-1", TeamID: "team-1", Phase: game.PhasePreGame, FormationCode: "4-4-2"}
}

func halftime() game.Game {
	g := preGame()
	g.Phase = game.PhaseHalftime
	return g
}

func TestSwapCompensationRevertsFirstLeg(t *testing.T) {
	ft := newFakeTransport(entry("ge-1", "ST"), entry("ge-2", "CB"))
	boom := errors.New("backend down")
	ft.updateErr = func(gameEventID, _ string) error {
		if gameEventID == "ge-2" {
			return boom
		}
		return nil
	}
	svc := NewLineupService(ft, testLogger())

	swap := lineup.Swap{
		Player1: roster.RefFromEntry(ft.entries[0]), Player1Position: "ST",
		Player2: roster.RefFromEntry(ft.entries[1]), Player2Position: "CB",
	}
	err := svc.ApplyChange(context.Background(), preGame(), game.Clock{}, swap)
	if !errors.Is(err, boom) {
		t.Fatalf("ApplyChange error = %v, want wrapped %v", err, boom)
	}

	if got := ft.positionOf("ge-1"); got != "ST" {
		t.Fatalf("player1 position after failed swap = %q, want reverted to ST", got)
	}
	want := []positionUpdate{{"ge-1", "CB"}, {"ge-2", "ST"}, {"ge-1", "ST"}}
	if len(ft.updateCalls) != len(want) {
		t.Fatalf("update calls = %v, want %v", ft.updateCalls, want)
	}
	for i, call := range want {
		if ft.updateCalls[i] != call {
			t.Fatalf("update call %d = %v, want %v", i, ft.updateCalls[i], call)
		}
	}
}

func TestSwapCompensationRevertFailureKeepsOriginalError(t *testing.T) {
	ft := newFakeTransport(entry("ge-1", "ST"), entry("ge-2", "CB"))
	boom := errors.New("backend down")
	calls := 0
	ft.updateErr = func(gameEventID, _ string) error {
		calls++
		if calls >= 2 {
			return boom
		}
		return nil
	}
	svc := NewLineupService(ft, testLogger())

	swap := lineup.Swap{
		Player1: roster.RefFromEntry(ft.entries[0]), Player1Position: "ST",
		Player2: roster.RefFromEntry(ft.entries[1]), Player2Position: "CB",
	}
	err := svc.ApplyChange(context.Background(), preGame(), game.Clock{}, swap)
	if !errors.Is(err, boom) {
		t.Fatalf("ApplyChange error = %v, want original second-leg error", err)
	}
	if !strings.Contains(err.Error(), "swap second leg") {
		t.Fatalf("error %q should name the failed leg, not the revert", err)
	}
}

func TestLiveSwapUsesServerSideExchange(t *testing.T) {
	ft := newFakeTransport(entry("ge-1", "ST"), entry("ge-2", "CB"))
	svc := NewLineupService(ft, testLogger())

	g := preGame()
	g.Phase = game.PhaseFirstHalf
	swap := lineup.Swap{
		Player1: roster.RefFromEntry(ft.entries[0]), Player1Position: "ST",
		Player2: roster.RefFromEntry(ft.entries[1]), Player2Position: "CB",
	}
	if err := svc.ApplyChange(context.Background(), g, game.Clock{Period: 1, PeriodSecond: 300}, swap); err != nil {
		t.Fatalf("ApplyChange: %v", err)
	}
	if len(ft.swapCalls) != 1 || len(ft.updateCalls) != 0 {
		t.Fatalf("live swap should use one SwapPositions call, got swaps=%d updates=%d", len(ft.swapCalls), len(ft.updateCalls))
	}
	if ft.swapCalls[0].Clock.PeriodSecond != 300 {
		t.Fatalf("swap clock = %+v, want period second 300", ft.swapCalls[0].Clock)
	}
}

func TestCommitPreGameAssignmentSendsOneAdd(t *testing.T) {
	ft := newFakeTransport()
	svc := NewLineupService(ft, testLogger())

	var q lineup.Queue
	q.Enqueue("q-1", lineup.Assignment{
		Position: "GK",
		Player:   roster.RefFromPlayer(roster.Player{ID: "player-7", TeamID: "team-1"}),
		Source:   lineup.SourceRoster,
	})

	result, err := svc.CommitPreGame(context.Background(), preGame(), &q)
	if err != nil {
		t.Fatalf("CommitPreGame: %v", err)
	}
	if result.Applied != 1 {
		t.Fatalf("applied = %d, want 1", result.Applied)
	}
	if len(ft.addCalls) != 1 {
		t.Fatalf("add calls = %d, want exactly 1", len(ft.addCalls))
	}
	call := ft.addCalls[0]
	if call.Position != "GK" || call.PlayerID != "player-7" {
		t.Fatalf("add call = %+v, want position GK for player-7", call)
	}
	if q.Len() != 0 {
		t.Fatalf("queue length after commit = %d, want 0", q.Len())
	}
}

func TestCommitPreGameFailureKeepsUnappliedTail(t *testing.T) {
	ft := newFakeTransport(entry("ge-1", "ST"), entry("ge-2", "CB"), entry("ge-3", "LM"))
	boom := errors.New("backend down")
	ft.updateErr = func(gameEventID, _ string) error {
		if gameEventID == "ge-2" {
			return boom
		}
		return nil
	}
	svc := NewLineupService(ft, testLogger())

	var q lineup.Queue
	q.Enqueue("q-1", lineup.PositionChange{Player: roster.RefFromEntry(ft.entries[0]), From: "ST", To: "CF"})
	q.Enqueue("q-2", lineup.PositionChange{Player: roster.RefFromEntry(ft.entries[1]), From: "CB", To: "RB"})
	q.Enqueue("q-3", lineup.PositionChange{Player: roster.RefFromEntry(ft.entries[2]), From: "LM", To: "RM"})

	result, err := svc.CommitPreGame(context.Background(), preGame(), &q)
	if !errors.Is(err, boom) {
		t.Fatalf("CommitPreGame error = %v, want %v", err, boom)
	}
	if result.Applied != 1 {
		t.Fatalf("applied = %d, want 1", result.Applied)
	}

	items := q.Items()
	if len(items) != 2 || items[0].ID != "q-2" || items[1].ID != "q-3" {
		t.Fatalf("remaining queue = %+v, want q-2 and q-3", items)
	}
	if got := ft.positionOf("ge-1"); got != "CF" {
		t.Fatalf("first item should have applied before the failure, position = %q", got)
	}
}

func TestCommitHalftimeSingleBatchWithSwapExchanged(t *testing.T) {
	onField := []roster.GameRosterEntry{entry("ge-1", "ST"), entry("ge-2", "CB"), entry("ge-3", "GK")}
	ft := newFakeTransport(onField...)
	svc := NewLineupService(ft, testLogger())

	var q lineup.Queue
	q.Enqueue("q-1", lineup.Swap{
		Player1: roster.RefFromEntry(onField[0]), Player1Position: "ST",
		Player2: roster.RefFromEntry(onField[1]), Player2Position: "CB",
	})

	result, err := svc.CommitHalftime(context.Background(), halftime(), onField, &q)
	if err != nil {
		t.Fatalf("CommitHalftime: %v", err)
	}
	if result.Applied != 1 || len(result.Skipped) != 0 {
		t.Fatalf("result = %+v, want one applied and nothing skipped", result)
	}
	if len(ft.secondHalfCalls) != 1 {
		t.Fatalf("SetSecondHalfLineup calls = %d, want exactly 1", len(ft.secondHalfCalls))
	}

	byPlayer := map[string]string{}
	for _, slot := range ft.secondHalfCalls[0] {
		byPlayer[slot.Player.GameEventID] = slot.Position
	}
	if byPlayer["ge-1"] != "CB" || byPlayer["ge-2"] != "ST" {
		t.Fatalf("submitted slots = %v, want ge-1 at CB and ge-2 at ST", byPlayer)
	}
	if byPlayer["ge-3"] != "GK" {
		t.Fatalf("untouched player moved: %v", byPlayer)
	}
}

func TestCommitHalftimeSkipsStaleAndAppliesRest(t *testing.T) {
	onField := []roster.GameRosterEntry{entry("ge-1", "ST"), entry("ge-2", "CB")}
	ft := newFakeTransport(onField...)
	svc := NewLineupService(ft, testLogger())

	gone := roster.RefFromEntry(entry("ge-99", "LM"))
	var q lineup.Queue
	q.Enqueue("q-1", lineup.Removal{Player: gone, Position: "LM"})
	q.Enqueue("q-2", lineup.PositionChange{Player: roster.RefFromEntry(onField[0]), From: "ST", To: "CF"})

	result, err := svc.CommitHalftime(context.Background(), halftime(), onField, &q)
	if err != nil {
		t.Fatalf("CommitHalftime with stale item: %v", err)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Item.ID != "q-1" {
		t.Fatalf("skipped = %+v, want only q-1", result.Skipped)
	}
	if result.Applied != 1 {
		t.Fatalf("applied = %d, want 1", result.Applied)
	}

	byPlayer := map[string]string{}
	for _, slot := range ft.secondHalfCalls[0] {
		byPlayer[slot.Player.GameEventID] = slot.Position
	}
	if byPlayer["ge-1"] != "CF" {
		t.Fatalf("later item should still apply after stale skip, slots = %v", byPlayer)
	}
}

func TestCommitHalftimeBenchAddsSubmittedAfterBatch(t *testing.T) {
	onField := []roster.GameRosterEntry{entry("ge-1", "ST")}
	ft := newFakeTransport(onField...)
	svc := NewLineupService(ft, testLogger())

	var q lineup.Queue
	q.Enqueue("q-1", lineup.Assignment{
		Player: roster.RefFromPlayer(roster.Player{ID: "player-9", TeamID: "team-1"}),
		Source: lineup.SourceRoster,
	})

	if _, err := svc.CommitHalftime(context.Background(), halftime(), onField, &q); err != nil {
		t.Fatalf("CommitHalftime: %v", err)
	}
	if len(ft.addCalls) != 1 || ft.addCalls[0].PlayerID != "player-9" || ft.addCalls[0].Position != "" {
		t.Fatalf("add calls = %+v, want one positionless add for player-9", ft.addCalls)
	}
}

func TestKeepSameLineupRejectsEmptyField(t *testing.T) {
	ft := newFakeTransport()
	svc := NewLineupService(ft, testLogger())

	err := svc.KeepSameLineup(context.Background(), halftime(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("KeepSameLineup with empty field error = %v, want ErrInvalidInput", err)
	}
	if len(ft.secondHalfCalls) != 0 {
		t.Fatalf("no lineup should be submitted for an empty field")
	}
}

func TestApplyReassignmentsRequiresCompleteMapping(t *testing.T) {
	ft := newFakeTransport(entry("ge-1", "LM"), entry("ge-2", "RM"))
	svc := NewLineupService(ft, testLogger())

	r := &lineup.Reassignment{
		NewFormation: mustFormation(t, "4-4-2"),
		ToReassign: []lineup.FlaggedPlayer{
			{Player: ft.entries[0], OldPosition: "LM"},
		},
	}
	err := svc.ApplyReassignments(context.Background(), preGame(), game.Clock{}, r)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ApplyReassignments with unmapped player error = %v, want ErrInvalidInput", err)
	}
	if len(ft.updateCalls) != 0 {
		t.Fatalf("no partial reassignment may be applied, got %v", ft.updateCalls)
	}
}
