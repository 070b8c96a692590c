package lineup

import (
	"testing"

	"github.com/matchdayhq/matchday/internal/domain/roster"
)

func TestApplyPositionChangeTouchesOneDuplicateSlot(t *testing.T) {
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "CB"),
		fieldEntry("b", "CB"),
	}

	var q Queue
	q.Enqueue("q1", PositionChange{Player: roster.RefFromEntry(onField[0]), From: "CB", To: "LB"})

	plan := ApplyToLineup(onField, q.Items())
	if len(plan.Stale) != 0 {
		t.Fatalf("unexpected stale items: %v", plan.Stale)
	}

	lb, cb := 0, 0
	for _, s := range plan.Slots {
		switch s.Position {
		case "LB":
			lb++
		case "CB":
			cb++
		}
	}
	if lb != 1 || cb != 1 {
		t.Fatalf("expected exactly one LB and one CB, got LB=%d CB=%d (%v)", lb, cb, plan.Slots)
	}
}

func TestApplySwapExchangesPositions(t *testing.T) {
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "LW"),
		fieldEntry("b", "ST"),
	}

	var q Queue
	q.Enqueue("q1", Swap{
		Player1:         roster.RefFromEntry(onField[0]),
		Player1Position: "LW",
		Player2:         roster.RefFromEntry(onField[1]),
		Player2Position: "ST",
	})

	plan := ApplyToLineup(onField, q.Items())
	byEvent := make(map[string]string, len(plan.Slots))
	for _, s := range plan.Slots {
		byEvent[s.Player.GameEventID] = s.Position
	}
	if byEvent["a"] != "ST" || byEvent["b"] != "LW" {
		t.Fatalf("expected a=ST b=LW after swap, got %v", byEvent)
	}
}

func TestApplySkipsStaleItems(t *testing.T) {
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "GK"),
		fieldEntry("b", "ST"),
	}

	var q Queue
	q.Enqueue("q1", PositionChange{Player: fieldRef("gone", "RW"), From: "RW", To: "LW"}) // stale
	q.Enqueue("q2", PositionChange{Player: roster.RefFromEntry(onField[1]), From: "ST", To: "CM"})

	plan := ApplyToLineup(onField, q.Items())
	if len(plan.Stale) != 1 || plan.Stale[0].Item.ID != "q1" {
		t.Fatalf("expected only q1 stale, got %v", plan.Stale)
	}
	if len(plan.Slots) != 2 {
		t.Fatalf("expected both slots to survive, got %v", plan.Slots)
	}
	found := false
	for _, s := range plan.Slots {
		if s.Player.GameEventID == "b" && s.Position == "CM" {
			found = true
		}
	}
	if !found {
		t.Fatal("later items must still apply after a stale skip")
	}
}

func TestApplyReplacementKeepsSlotCount(t *testing.T) {
	onField := []roster.GameRosterEntry{fieldEntry("out", "CB")}
	replaced := roster.RefFromEntry(onField[0])

	var q Queue
	q.Enqueue("q1", Assignment{Position: "CB", Player: benchRef("in"), Source: SourceBench, Replacing: &replaced})

	plan := ApplyToLineup(onField, q.Items())
	if len(plan.Slots) != 1 || plan.Slots[0].Player.GameEventID != "in" || plan.Slots[0].Position != "CB" {
		t.Fatalf("expected incoming player at CB, got %v", plan.Slots)
	}
}

func TestApplyCollectsBenchAdds(t *testing.T) {
	var q Queue
	q.Enqueue("q1", Assignment{Player: rosterRef("p-new"), Source: SourceRoster})

	plan := ApplyToLineup(nil, q.Items())
	if len(plan.BenchAdds) != 1 || plan.BenchAdds[0].Key() != "p-new" {
		t.Fatalf("expected p-new in bench adds, got %v", plan.BenchAdds)
	}
	if len(plan.Slots) != 0 {
		t.Fatalf("positionless assignment must not occupy a slot, got %v", plan.Slots)
	}
}
