package lineup

import (
	"errors"
	"testing"

	"github.com/matchdayhq/matchday/internal/domain/formation"
	"github.com/matchdayhq/matchday/internal/domain/roster"
)

func mustFormation(t *testing.T, code string) formation.Formation {
	t.Helper()
	f, ok := formation.DefaultCatalog().Get(code)
	if !ok {
		t.Fatalf("formation %s missing from default catalog", code)
	}
	return f
}

func TestPlanReassignmentNilWhenEveryoneFits(t *testing.T) {
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "GK"),
		fieldEntry("b", "CB"),
		fieldEntry("c", "ST"),
	}

	if r := PlanReassignment(onField, mustFormation(t, "4-4-2")); r != nil {
		t.Fatalf("expected no reassignment, got %+v", r.ToReassign)
	}
}

func TestPlanReassignmentFlagsOverflowInOrder(t *testing.T) {
	// 4-3-3 has two CB slots; three CBs on field flags the third.
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "CB"),
		fieldEntry("b", "CB"),
		fieldEntry("c", "CB"),
		fieldEntry("d", "GK"),
	}

	r := PlanReassignment(onField, mustFormation(t, "4-3-3"))
	if r == nil {
		t.Fatal("expected a reassignment")
	}
	if len(r.ToReassign) != 1 || r.ToReassign[0].Player.GameEventID != "c" {
		t.Fatalf("expected only c flagged, got %+v", r.ToReassign)
	}
	if r.ToReassign[0].OldPosition != "CB" {
		t.Fatalf("flagged player must carry old position, got %s", r.ToReassign[0].OldPosition)
	}
}

func TestPlanReassignmentFlagsVanishedCodes(t *testing.T) {
	// 4-4-2 has no LW slot at all.
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "LW"),
		fieldEntry("b", "ST"),
	}

	r := PlanReassignment(onField, mustFormation(t, "4-4-2"))
	if r == nil || len(r.ToReassign) != 1 || r.ToReassign[0].Player.GameEventID != "a" {
		t.Fatalf("expected LW player flagged, got %+v", r)
	}
}

func TestReassignmentCompletenessGate(t *testing.T) {
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "CB"),
		fieldEntry("b", "CB"),
		fieldEntry("c", "CB"),
		fieldEntry("d", "CB"),
	}

	// 4-3-3 keeps two CBs, flags two.
	r := PlanReassignment(onField, mustFormation(t, "4-3-3"))
	if r == nil || len(r.ToReassign) != 2 {
		t.Fatalf("expected two flagged players, got %+v", r)
	}

	if _, err := r.Changes(); !errors.Is(err, ErrReassignmentIncomplete) {
		t.Fatalf("expected incomplete error with no choices, got %v", err)
	}

	if err := r.Choose("c", "LB"); err != nil {
		t.Fatalf("choose LB for c: %v", err)
	}
	if r.Complete() {
		t.Fatal("one of two choices must not complete the reassignment")
	}
	if _, err := r.Changes(); !errors.Is(err, ErrReassignmentIncomplete) {
		t.Fatalf("expected incomplete error with partial choices, got %v", err)
	}

	if err := r.Choose("d", "RB"); err != nil {
		t.Fatalf("choose RB for d: %v", err)
	}
	if !r.Complete() {
		t.Fatal("expected completion after both choices")
	}

	changes, err := r.Changes()
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	if len(changes) != 2 || changes[0].To != "LB" || changes[1].To != "RB" {
		t.Fatalf("unexpected change set: %+v", changes)
	}
}

func TestEligibilityConsumesSlots(t *testing.T) {
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "LW"),
		fieldEntry("b", "LW"),
	}

	// 4-3-3 has a single LW slot: a stays, b is flagged.
	r := PlanReassignment(onField, mustFormation(t, "4-3-3"))
	if r == nil || len(r.ToReassign) != 1 {
		t.Fatalf("expected one flagged player, got %+v", r)
	}

	for _, code := range r.Eligible("b") {
		if code == "LW" {
			t.Fatal("LW is fully occupied by the staying player and must not be eligible")
		}
	}

	if err := r.Choose("b", "LW"); err == nil {
		t.Fatal("choosing an exhausted position must fail")
	}
}

func TestEligibilityKeepsOwnTentativeChoice(t *testing.T) {
	// Two flagged players compete for the single remaining ST slot in 4-3-3.
	onField := []roster.GameRosterEntry{
		fieldEntry("a", "ST"),
		fieldEntry("b", "ST"),
		fieldEntry("c", "ST"),
	}

	r := PlanReassignment(onField, mustFormation(t, "4-3-3"))
	if r == nil || len(r.ToReassign) != 2 {
		t.Fatalf("expected two flagged STs, got %+v", r)
	}

	if err := r.Choose("b", "LW"); err != nil {
		t.Fatalf("choose LW for b: %v", err)
	}

	// b's own pick stays listed even though its slot is now spoken for...
	found := false
	for _, code := range r.Eligible("b") {
		if code == "LW" {
			found = true
		}
	}
	if !found {
		t.Fatal("a player's own tentative choice must stay in their eligible list")
	}

	// ...while the other flagged player no longer sees it.
	for _, code := range r.Eligible("c") {
		if code == "LW" {
			t.Fatal("LW is taken by b's tentative choice and must not be offered to c")
		}
	}
}
