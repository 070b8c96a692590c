package lineup

import (
	"errors"
	"testing"

	"github.com/matchdayhq/matchday/internal/domain/roster"
)

func fieldRef(id, pos string) roster.PlayerRef {
	return roster.RefFromEntry(roster.GameRosterEntry{
		GameEventID: id, GameID: "g", PlayerID: "p-" + id, Position: pos,
	})
}

func benchRef(id string) roster.PlayerRef {
	return roster.RefFromEntry(roster.GameRosterEntry{
		GameEventID: id, GameID: "g", PlayerID: "p-" + id,
	})
}

func rosterRef(id string) roster.PlayerRef {
	return roster.RefFromPlayer(roster.Player{ID: id, TeamID: "t"})
}

func TestClickSamePositionTwiceReturnsToIdle(t *testing.T) {
	var s Selection

	res, err := s.ClickPosition("GK", nil)
	if err != nil {
		t.Fatalf("first click: %v", err)
	}
	if res.Next.Direction != DirectionPositionFirst || res.Next.Position != "GK" {
		t.Fatalf("expected position-first GK, got %+v", res.Next)
	}

	res, err = res.Next.ClickPosition("GK", nil)
	if err != nil {
		t.Fatalf("second click: %v", err)
	}
	if !res.Next.Idle() || res.Change != nil {
		t.Fatalf("expected idle with no change, got %+v", res)
	}
}

func TestClickSamePlayerTwiceReturnsToIdle(t *testing.T) {
	var s Selection
	p := benchRef("a")

	res, err := s.ClickPlayer(p, SourceBench)
	if err != nil {
		t.Fatalf("first click: %v", err)
	}
	res, err = res.Next.ClickPlayer(p, SourceBench)
	if err != nil {
		t.Fatalf("second click: %v", err)
	}
	if !res.Next.Idle() || res.Change != nil {
		t.Fatalf("expected idle with no change, got %+v", res)
	}
}

func TestPositionFirstThenBenchPlayerProducesAssignment(t *testing.T) {
	var s Selection

	res, _ := s.ClickPosition("ST", nil)
	res, err := res.Next.ClickPlayer(benchRef("a"), SourceBench)
	if err != nil {
		t.Fatalf("click bench player: %v", err)
	}

	a, ok := res.Change.(Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", res.Change)
	}
	if a.Position != "ST" || a.Player.Key() != "a" || a.Replacing != nil {
		t.Fatalf("unexpected assignment: %+v", a)
	}
	if !res.Next.Idle() {
		t.Fatal("selection must reset after resolving a change")
	}
}

func TestPositionFirstIgnoresOnFieldPlayer(t *testing.T) {
	var s Selection

	res, _ := s.ClickPosition("ST", nil)
	res, err := res.Next.ClickPlayer(fieldRef("a", "GK"), SourceOnField)
	if err != nil {
		t.Fatalf("click on-field player: %v", err)
	}
	if res.Change != nil {
		t.Fatalf("expected no change, got %+v", res.Change)
	}
	if res.Next.Direction != DirectionPositionFirst || res.Next.Position != "ST" {
		t.Fatalf("selection must stay position-first ST, got %+v", res.Next)
	}
}

func TestSwitchingBetweenEmptyPositions(t *testing.T) {
	var s Selection

	res, _ := s.ClickPosition("ST", nil)
	res, err := res.Next.ClickPosition("LW", nil)
	if err != nil {
		t.Fatalf("switch position: %v", err)
	}
	if res.Next.Position != "LW" || res.Change != nil {
		t.Fatalf("expected retarget to LW with no change, got %+v", res)
	}
}

func TestOnFieldPlayerPairProducesSwap(t *testing.T) {
	var s Selection
	x := fieldRef("a", "LW")
	y := fieldRef("b", "ST")

	res, _ := s.ClickPlayer(x, SourceOnField)
	res, err := res.Next.ClickPlayer(y, SourceOnField)
	if err != nil {
		t.Fatalf("click second player: %v", err)
	}

	sw, ok := res.Change.(Swap)
	if !ok {
		t.Fatalf("expected Swap, got %T", res.Change)
	}
	if sw.Player1Position != "LW" || sw.Player2Position != "ST" {
		t.Fatalf("unexpected swap positions: %+v", sw)
	}
}

func TestBenchPlayerOntoOnFieldPlayerReplaces(t *testing.T) {
	var s Selection
	incoming := benchRef("in")
	target := fieldRef("out", "CB")

	res, _ := s.ClickPlayer(incoming, SourceBench)
	res, err := res.Next.ClickPlayer(target, SourceOnField)
	if err != nil {
		t.Fatalf("click target: %v", err)
	}

	a, ok := res.Change.(Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", res.Change)
	}
	if a.Position != "CB" || a.Replacing == nil || a.Replacing.Key() != "out" {
		t.Fatalf("unexpected replacing assignment: %+v", a)
	}
}

func TestOnFieldPlayerThenEmptyPositionMoves(t *testing.T) {
	var s Selection
	x := fieldRef("a", "CM")

	res, _ := s.ClickPlayer(x, SourceOnField)
	res, err := res.Next.ClickPosition("RW", nil)
	if err != nil {
		t.Fatalf("click empty position: %v", err)
	}

	mv, ok := res.Change.(PositionChange)
	if !ok {
		t.Fatalf("expected PositionChange, got %T", res.Change)
	}
	if mv.From != "CM" || mv.To != "RW" {
		t.Fatalf("unexpected move: %+v", mv)
	}
}

func TestClickFilledPositionDelegatesToOccupant(t *testing.T) {
	var s Selection
	occupant := fieldRef("a", "GK")

	res, err := s.ClickPosition("GK", &occupant)
	if err != nil {
		t.Fatalf("click filled position: %v", err)
	}
	if res.Next.Direction != DirectionPlayerFirst || res.Next.Player.Key() != "a" {
		t.Fatalf("expected player-first on occupant, got %+v", res.Next)
	}
	if res.Next.Source != SourceOnField {
		t.Fatalf("occupant clicks count as on-field, got %s", res.Next.Source)
	}
}

func TestSwapWithoutPositionsFails(t *testing.T) {
	s := playerFirst(benchRef("a"), SourceOnField) // on-field source but no position

	_, err := s.ClickPlayer(fieldRef("b", "ST"), SourceOnField)
	if !errors.Is(err, ErrSwapNeedsPositions) {
		t.Fatalf("expected ErrSwapNeedsPositions, got %v", err)
	}
}

func TestAddToBench(t *testing.T) {
	var s Selection

	res, err := s.AddToBench(fieldRef("a", "ST"), SourceOnField)
	if err != nil {
		t.Fatalf("bench on-field player: %v", err)
	}
	rm, ok := res.Change.(Removal)
	if !ok || rm.Position != "ST" {
		t.Fatalf("expected Removal at ST, got %+v", res.Change)
	}

	res, err = s.AddToBench(rosterRef("p-z"), SourceRoster)
	if err != nil {
		t.Fatalf("bench roster player: %v", err)
	}
	a, ok := res.Change.(Assignment)
	if !ok || a.Position != "" {
		t.Fatalf("expected positionless Assignment, got %+v", res.Change)
	}

	res, err = s.AddToBench(benchRef("b"), SourceBench)
	if err != nil || res.Change != nil {
		t.Fatalf("benching a bench player must be a no-op, got %+v err=%v", res, err)
	}
}
