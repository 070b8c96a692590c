package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
)

type stubRosterRepo struct{ entries []roster.GameRosterEntry }

func (r *stubRosterRepo) ListByGame(context.Context, string) ([]roster.GameRosterEntry, error) {
	return append([]roster.GameRosterEntry(nil), r.entries...), nil
}
func (r *stubRosterRepo) GetEntry(_ context.Context, gameEventID string) (roster.GameRosterEntry, bool, error) {
	for _, e := range r.entries {
		if e.GameEventID == gameEventID {
			return e, true, nil
		}
	}
	return roster.GameRosterEntry{}, false, nil
}
func (r *stubRosterRepo) Insert(_ context.Context, e roster.GameRosterEntry) error {
	r.entries = append(r.entries, e)
	return nil
}
func (r *stubRosterRepo) UpdatePosition(context.Context, string, string) (roster.GameRosterEntry, bool, error) {
	return roster.GameRosterEntry{}, false, nil
}
func (r *stubRosterRepo) Delete(context.Context, string) (bool, error) { return false, nil }

type failingEventRepo struct {
	stubEventRepo
	insertErr error
}

func (r *failingEventRepo) Insert(ctx context.Context, ev game.MatchEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	return r.stubEventRepo.Insert(ctx, ev)
}

func goalFixtures(level game.StatsTrackingLevel) (*stubGameRepo, *stubRosterRepo) {
	g := preGame()
	g.Phase = game.PhaseFirstHalf
	g.StatsLevel = level
	gameRepo := &stubGameRepo{game: g}
	rosterRepo := &stubRosterRepo{entries: []roster.GameRosterEntry{
		{GameEventID: "ge-1", GameID: g.ID, PlayerID: "p-1", ExternalPlayerName: "Alex Kim", ExternalPlayerNumber: "10", Position: "ST"},
		{GameEventID: "ge-2", GameID: g.ID, PlayerID: "p-2", ExternalPlayerName: "Riley Cho", ExternalPlayerNumber: "8", Position: "CM"},
	}}
	return gameRepo, rosterRepo
}

func TestRecordGoalFullStatsWithAssist(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsFull)
	events := &stubEventRepo{}
	svc := NewGoalService(gameRepo, events, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	ev, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true,
		Clock:         game.Clock{Period: 1, PeriodSecond: 720},
		ScorerEventID: "ge-1", AssistEventID: "ge-2",
	})
	if err != nil {
		t.Fatalf("RecordGoal: %v", err)
	}
	if ev.PlayerID != "p-1" || ev.AssistID != "p-2" {
		t.Fatalf("goal = %+v, want scorer p-1 with assist p-2", ev)
	}
	if gameRepo.game.HomeScore != 1 {
		t.Fatalf("home score = %d, want 1", gameRepo.game.HomeScore)
	}
	if len(events.events) != 1 || events.events[0].Type != game.EventGoal {
		t.Fatalf("persisted events = %+v, want one goal", events.events)
	}

	timeline := svc.Timeline()
	if len(timeline) != 1 || timeline[0].Provisional {
		t.Fatalf("timeline = %+v, want one confirmed event", timeline)
	}
}

func TestRecordGoalGoalsOnlySkipsPlayerDetail(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsGoalsOnly)
	svc := NewGoalService(gameRepo, &stubEventRepo{}, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	// No scorer given: fine at this level.
	ev, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true, Clock: game.Clock{Period: 1, PeriodSecond: 60},
	})
	if err != nil {
		t.Fatalf("RecordGoal: %v", err)
	}
	if ev.PlayerID != "" || ev.AssistID != "" {
		t.Fatalf("goals-only event should carry no player detail, got %+v", ev)
	}
}

func TestRecordGoalScorerOnlyIgnoresAssist(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsScorerOnly)
	svc := NewGoalService(gameRepo, &stubEventRepo{}, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	ev, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true,
		Clock:         game.Clock{Period: 1, PeriodSecond: 60},
		ScorerEventID: "ge-1", AssistEventID: "ge-2",
	})
	if err != nil {
		t.Fatalf("RecordGoal: %v", err)
	}
	if ev.PlayerID != "p-1" {
		t.Fatalf("scorer should be recorded, got %+v", ev)
	}
	if ev.AssistID != "" {
		t.Fatalf("assist must be dropped below full stats tracking, got %q", ev.AssistID)
	}
}

func TestRecordGoalByJerseyQuickEntry(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsFull)
	svc := NewGoalService(gameRepo, &stubEventRepo{}, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	ev, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true,
		Clock:        game.Clock{Period: 2, PeriodSecond: 30},
		ScorerJersey: "8",
	})
	if err != nil {
		t.Fatalf("RecordGoal by jersey: %v", err)
	}
	if ev.PlayerID != "p-2" {
		t.Fatalf("jersey 8 should resolve to p-2, got %+v", ev)
	}
}

func TestRecordGoalMissingScorerRejected(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsFull)
	svc := NewGoalService(gameRepo, &stubEventRepo{}, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	_, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true, Clock: game.Clock{Period: 1},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing scorer error = %v, want ErrInvalidInput", err)
	}
}

func TestRecordGoalOpponentCountsAwayScore(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsFull)
	svc := NewGoalService(gameRepo, &stubEventRepo{}, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	ev, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: false, Clock: game.Clock{Period: 1, PeriodSecond: 90},
	})
	if err != nil {
		t.Fatalf("opponent goal: %v", err)
	}
	if ev.PlayerID != "" {
		t.Fatalf("opponent goals carry no scorer, got %+v", ev)
	}
	if gameRepo.game.AwayScore != 1 || gameRepo.game.HomeScore != 0 {
		t.Fatalf("score = %d-%d, want 0-1", gameRepo.game.HomeScore, gameRepo.game.AwayScore)
	}
}

func TestRecordGoalRollsBackProvisionalOnFailure(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsFull)
	events := &failingEventRepo{insertErr: errors.New("backend down")}
	timeline := NewOptimisticTimeline()
	svc := NewGoalService(gameRepo, events, rosterRepo, timeline, &stubIDGen{}, testLogger())

	_, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true,
		Clock:         game.Clock{Period: 1, PeriodSecond: 300},
		ScorerEventID: "ge-1",
	})
	if err == nil {
		t.Fatalf("RecordGoal should surface the persist failure")
	}
	if got := timeline.Snapshot(); len(got) != 0 {
		t.Fatalf("provisional event must roll back on failure, timeline = %+v", got)
	}
	if gameRepo.game.HomeScore != 0 {
		t.Fatalf("score must not change on a failed goal, got %d", gameRepo.game.HomeScore)
	}
}

func TestEditGoalClearAssist(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsFull)
	events := &stubEventRepo{}
	svc := NewGoalService(gameRepo, events, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	recorded, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true,
		Clock:         game.Clock{Period: 1, PeriodSecond: 720},
		ScorerEventID: "ge-1", AssistEventID: "ge-2",
	})
	if err != nil {
		t.Fatalf("RecordGoal: %v", err)
	}

	edited, err := svc.EditGoal(context.Background(), EditGoalInput{
		EventID: recorded.ID, Clock: game.Clock{Period: 1, PeriodSecond: 700}, ClearAssist: true,
	})
	if err != nil {
		t.Fatalf("EditGoal: %v", err)
	}
	if edited.AssistID != "" || edited.AssistName != "" {
		t.Fatalf("assist should clear explicitly, got %+v", edited)
	}
	if edited.PlayerID != "p-1" {
		t.Fatalf("scorer should survive an assist-only edit, got %+v", edited)
	}
	if edited.PeriodSecond != 700 {
		t.Fatalf("clock should update, got %d", edited.PeriodSecond)
	}
}

func TestEditGoalOmittedAssistKeepsExisting(t *testing.T) {
	gameRepo, rosterRepo := goalFixtures(game.StatsFull)
	svc := NewGoalService(gameRepo, &stubEventRepo{}, rosterRepo, NewOptimisticTimeline(), &stubIDGen{}, testLogger())

	recorded, err := svc.RecordGoal(context.Background(), RecordGoalInput{
		GameID: "game-1", OurTeam: true,
		Clock:         game.Clock{Period: 1, PeriodSecond: 720},
		ScorerEventID: "ge-1", AssistEventID: "ge-2",
	})
	if err != nil {
		t.Fatalf("RecordGoal: %v", err)
	}

	edited, err := svc.EditGoal(context.Background(), EditGoalInput{
		EventID: recorded.ID, Clock: game.Clock{Period: 1, PeriodSecond: 720}, ScorerEventID: "ge-2",
	})
	if err != nil {
		t.Fatalf("EditGoal: %v", err)
	}
	if edited.AssistID != "p-2" {
		t.Fatalf("omitted assist input must keep the recorded assist, got %+v", edited)
	}
}

func TestTimelineReconcileDeleteDropsEvent(t *testing.T) {
	timeline := NewOptimisticTimeline()
	timeline.Reconcile(game.FeedEnvelope{
		GameID: "game-1", Action: game.FeedCreated,
		Event: &game.MatchEvent{ID: "ev-1", GameID: "game-1", Type: game.EventGoal},
	})
	timeline.Reconcile(game.FeedEnvelope{GameID: "game-1", Action: game.FeedDeleted, DeletedEventID: "ev-1"})

	if got := timeline.Snapshot(); len(got) != 0 {
		t.Fatalf("timeline after delete = %+v, want empty", got)
	}
}
