package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/lineup"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
)

// ClockFunc derives the current match clock for a game, used to stamp live
// substitutions and position changes.
type ClockFunc func(game.Game) game.Clock

// ReassignmentView describes the pending formation change blocking on
// manual position choices.
type ReassignmentView struct {
	NewFormationCode string
	ToReassign       []lineup.FlaggedPlayer
	Mapping          map[string]string
	Complete         bool
}

// SessionView is the full state of a lineup session after a transition,
// emitted to every observer. Downstream consumers read it instead of
// wiring a callback per concern.
type SessionView struct {
	GameID          string
	Phase           game.Phase
	FormationCode   string
	BatchMode       bool
	Executing       bool
	Selection       lineup.Selection
	OnField         []roster.GameRosterEntry
	Bench           []roster.GameRosterEntry
	Available       []roster.Player
	Queue           []lineup.QueuedItem
	QueuedPositions map[string]struct{}
	QueuedPlayers   map[string]struct{}
	FilledCount     int
	FilledPositions []string
	Reassignment    *ReassignmentView
	Conflicts       []game.Conflict
}

// Session owns one game's live lineup state: the selection, the pending
// change queue and any in-progress formation reassignment. It is the single
// mutator for that state; the mutex only exists because HTTP handler
// goroutines share the instance.
type Session struct {
	mu         sync.Mutex
	game       game.Game
	entries    []roster.GameRosterEntry
	teamRoster []roster.Player
	selection  lineup.Selection
	queue      lineup.Queue
	reassign   *lineup.Reassignment
	conflicts  []game.Conflict
	batch      bool
	executing  bool

	engine     *LineupService
	formations *FormationService
	idGen      idgen.Generator
	clock      ClockFunc
	logger     *slog.Logger
	observers  []func(SessionView)
}

func newSession(
	g game.Game,
	entries []roster.GameRosterEntry,
	teamRoster []roster.Player,
	engine *LineupService,
	formations *FormationService,
	idGen idgen.Generator,
	clock ClockFunc,
	logger *slog.Logger,
) *Session {
	if clock == nil {
		clock = func(game.Game) game.Clock { return game.Clock{} }
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		game:       g,
		entries:    entries,
		teamRoster: teamRoster,
		batch:      g.Phase == game.PhaseHalftime,
		engine:     engine,
		formations: formations,
		idGen:      idGen,
		clock:      clock,
		logger:     logger,
	}
}

// Subscribe registers an observer called with the full session view after
// every transition.
func (s *Session) Subscribe(fn func(SessionView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// View returns the current session state.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// SetBatchMode toggles pre-game batch editing. Halftime is always batch.
func (s *Session) SetBatchMode(enabled bool) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.Phase == game.PhasePreGame {
		s.batch = enabled
	}
	return s.viewLocked()
}

// ClickPosition handles a click on a formation slot. Clicking an occupied
// code resolves against its first occupant, matching the code-addressed
// selection model.
func (s *Session) ClickPosition(ctx context.Context, code string) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}

	var occupant *roster.PlayerRef
	if at := roster.AtPosition(s.entries, code); len(at) > 0 {
		ref := roster.RefFromEntry(at[0])
		occupant = &ref
	}

	res, err := s.selection.ClickPosition(code, occupant)
	if err != nil {
		s.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.resolve(ctx, res)
}

// ClickPlayer handles a click on a player in the lineup, the bench list or
// the team roster list. key is the game event id for on-field/bench players
// and the player id for roster candidates.
func (s *Session) ClickPlayer(ctx context.Context, key string, source lineup.Source) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}

	ref, err := s.lookupLocked(key, source)
	if err != nil {
		s.mu.Unlock()
		return SessionView{}, err
	}

	res, err := s.selection.ClickPlayer(ref, source)
	if err != nil {
		s.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.resolve(ctx, res)
}

// AddToBench handles the "add to bench" action for a player.
func (s *Session) AddToBench(ctx context.Context, key string, source lineup.Source) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}

	ref, err := s.lookupLocked(key, source)
	if err != nil {
		s.mu.Unlock()
		return SessionView{}, err
	}

	res, err := s.selection.AddToBench(ref, source)
	if err != nil {
		s.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.resolve(ctx, res)
}

// RemoveQueued drops one pending item by id.
func (s *Session) RemoveQueued(id string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.executing {
		return SessionView{}, ErrSessionBusy
	}
	if !s.queue.Remove(id) {
		return SessionView{}, fmt.Errorf("%w: queued item=%s", ErrNotFound, id)
	}
	return s.notifyLocked(), nil
}

// ClearQueue drops every pending item.
func (s *Session) ClearQueue() (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.executing {
		return SessionView{}, ErrSessionBusy
	}
	s.queue.Clear()
	return s.notifyLocked(), nil
}

// Cancel resets the selection, the queue and any pending reassignment.
func (s *Session) Cancel() (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.executing {
		return SessionView{}, ErrSessionBusy
	}
	s.selection = lineup.Selection{}
	s.queue.Clear()
	s.reassign = nil
	return s.notifyLocked(), nil
}

// Confirm commits the queue: one batched lineup call at halftime, one
// mutation per item in order pre-game. Re-entrant confirms are rejected
// while a commit is in flight.
func (s *Session) Confirm(ctx context.Context) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}
	if s.queue.Len() == 0 {
		defer s.mu.Unlock()
		return s.viewLocked(), nil
	}
	s.executing = true
	g := s.game
	onField := roster.OnField(s.entries)
	// The engine trims the queue in place on a partial failure; commit runs
	// against a detached copy so readers holding s.mu never see that shift.
	work := s.queue.Clone()
	s.mu.Unlock()

	var result CommitResult
	var err error
	if g.Phase == game.PhaseHalftime {
		result, err = s.engine.CommitHalftime(ctx, g, onField, &work)
	} else {
		result, err = s.engine.CommitPreGame(ctx, g, &work)
	}

	s.mu.Lock()
	s.executing = false
	s.queue = work // cleared on success, succeeded prefix trimmed on failure
	if err == nil {
		s.entries = result.Roster
		s.selection = lineup.Selection{}
	}
	view := s.notifyLocked()
	s.mu.Unlock()

	if err != nil {
		return view, err
	}
	return view, nil
}

// KeepSameLineup submits the current on-field list unchanged for the next
// period, the halftime shortcut.
func (s *Session) KeepSameLineup(ctx context.Context) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}
	s.executing = true
	g := s.game
	onField := roster.OnField(s.entries)
	s.mu.Unlock()

	err := s.engine.KeepSameLineup(ctx, g, onField)

	s.mu.Lock()
	s.executing = false
	view := s.notifyLocked()
	s.mu.Unlock()
	return view, err
}

// ChangeFormation switches the active formation. When some on-field players
// no longer fit the new slot counts the change is held and the view reports
// the players requiring manual reassignment.
func (s *Session) ChangeFormation(ctx context.Context, code string) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}

	f, err := s.formations.Get(code)
	if err != nil {
		s.mu.Unlock()
		return SessionView{}, err
	}

	if r := lineup.PlanReassignment(roster.OnField(s.entries), f); r != nil {
		s.reassign = r
		defer s.mu.Unlock()
		return s.notifyLocked(), nil
	}

	s.executing = true
	g := s.game
	s.mu.Unlock()

	updated, err := s.formations.SetGameFormation(ctx, g, code, s.clock(g))

	s.mu.Lock()
	s.executing = false
	if err == nil {
		s.game = updated
	}
	view := s.notifyLocked()
	s.mu.Unlock()
	return view, err
}

// EligiblePositions lists the target codes a flagged player may choose.
func (s *Session) EligiblePositions(gameEventID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reassign == nil {
		return nil, fmt.Errorf("%w: no reassignment in progress", ErrNotFound)
	}
	return s.reassign.Eligible(gameEventID), nil
}

// ChooseReassignment records a flagged player's target position.
func (s *Session) ChooseReassignment(gameEventID, code string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.executing {
		return SessionView{}, ErrSessionBusy
	}
	if s.reassign == nil {
		return SessionView{}, fmt.Errorf("%w: no reassignment in progress", ErrNotFound)
	}
	if err := s.reassign.Choose(gameEventID, code); err != nil {
		return SessionView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.notifyLocked(), nil
}

// ConfirmReassignments applies the completed choice set and then the held
// formation change. It refuses to run while any flagged player is unmapped.
func (s *Session) ConfirmReassignments(ctx context.Context) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}
	if s.reassign == nil {
		s.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: no reassignment in progress", ErrNotFound)
	}
	if !s.reassign.Complete() {
		s.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: %v", ErrInvalidInput, lineup.ErrReassignmentIncomplete)
	}
	s.executing = true
	g := s.game
	r := s.reassign
	s.mu.Unlock()

	clock := s.clock(g)
	err := s.engine.ApplyReassignments(ctx, g, clock, r)
	var updated game.Game
	if err == nil {
		updated, err = s.formations.SetGameFormation(ctx, g, r.NewFormation.Code, clock)
	}
	var refreshed []roster.GameRosterEntry
	if err == nil {
		refreshed, err = s.engine.Refetch(ctx, g.ID)
	}

	s.mu.Lock()
	s.executing = false
	if err == nil {
		s.game = updated
		s.entries = refreshed
		s.reassign = nil
	}
	view := s.notifyLocked()
	s.mu.Unlock()
	return view, err
}

// Refresh reloads the roster snapshot and game state, used after commits
// and on inbound feed events that affect the lineup.
func (s *Session) Refresh(ctx context.Context) (SessionView, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return SessionView{}, ErrSessionBusy
	}
	gameID := s.game.ID
	s.mu.Unlock()

	entries, err := s.engine.Refetch(ctx, gameID)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	s.entries = entries
	view := s.notifyLocked()
	s.mu.Unlock()
	return view, nil
}

// UpdateGame replaces the game snapshot, typically after a period change
// arrives on the feed. Moving into halftime switches the session to batch
// editing; leaving it drops the flag along with any stale queue.
func (s *Session) UpdateGame(g game.Game) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.game.Phase
	s.game = g
	if g.Phase != prev {
		s.batch = g.Phase == game.PhaseHalftime
		if g.Phase.Live() || g.Phase == game.PhaseFinal {
			s.queue.Clear()
			s.selection = lineup.Selection{}
		}
	}
	return s.notifyLocked()
}

// AcceptConflict surfaces a concurrent-edit conflict from the feed.
// Resolution happens elsewhere; the session only holds it for display.
func (s *Session) AcceptConflict(c game.Conflict) {
	s.mu.Lock()
	s.conflicts = append(s.conflicts, c)
	s.notifyLocked()
	s.mu.Unlock()
}

// DismissConflict drops a surfaced conflict.
func (s *Session) DismissConflict(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.conflicts {
		if c.EventID == eventID {
			s.conflicts = append(s.conflicts[:i], s.conflicts[i+1:]...)
			break
		}
	}
	s.notifyLocked()
}

// resolve finishes a click: selection moves, and a resolved change either
// joins the queue (batch mode) or commits immediately. Called with the lock
// held; returns with it released.
func (s *Session) resolve(ctx context.Context, res lineup.Resolution) (SessionView, error) {
	s.selection = res.Next

	if res.Change == nil {
		defer s.mu.Unlock()
		return s.notifyLocked(), nil
	}

	if s.batch {
		id, err := s.idGen.NewID()
		if err != nil {
			s.mu.Unlock()
			return SessionView{}, fmt.Errorf("generate queue item id: %w", err)
		}
		s.queue.Enqueue(id, res.Change)
		defer s.mu.Unlock()
		return s.notifyLocked(), nil
	}

	s.executing = true
	g := s.game
	s.mu.Unlock()

	err := s.engine.ApplyChange(ctx, g, s.clock(g), res.Change)
	var refreshed []roster.GameRosterEntry
	if err == nil {
		refreshed, err = s.engine.Refetch(ctx, g.ID)
	}

	s.mu.Lock()
	s.executing = false
	if err == nil {
		s.entries = refreshed
	}
	view := s.notifyLocked()
	s.mu.Unlock()
	return view, err
}

func (s *Session) lookupLocked(key string, source lineup.Source) (roster.PlayerRef, error) {
	switch source {
	case lineup.SourceOnField, lineup.SourceBench:
		for _, e := range s.entries {
			if e.GameEventID == key {
				return roster.RefFromEntry(e), nil
			}
		}
		return roster.PlayerRef{}, fmt.Errorf("%w: roster entry=%s", ErrNotFound, key)
	case lineup.SourceRoster:
		for _, p := range s.teamRoster {
			if p.ID == key {
				return roster.RefFromPlayer(p), nil
			}
		}
		return roster.PlayerRef{}, fmt.Errorf("%w: player=%s", ErrNotFound, key)
	}
	return roster.PlayerRef{}, fmt.Errorf("%w: unknown player source %q", ErrInvalidInput, source)
}

func (s *Session) viewLocked() SessionView {
	onField := roster.OnField(s.entries)
	count, positions := s.queue.Filled(onField)

	view := SessionView{
		GameID:          s.game.ID,
		Phase:           s.game.Phase,
		FormationCode:   s.game.FormationCode,
		BatchMode:       s.batch,
		Executing:       s.executing,
		Selection:       s.selection,
		OnField:         onField,
		Bench:           roster.Bench(s.entries),
		Available:       roster.Available(s.teamRoster, s.entries),
		Queue:           s.queue.Items(),
		QueuedPositions: s.queue.Positions(),
		QueuedPlayers:   s.queue.PlayerKeys(),
		FilledCount:     count,
		FilledPositions: positions,
		Conflicts:       append([]game.Conflict(nil), s.conflicts...),
	}
	if s.reassign != nil {
		view.Reassignment = &ReassignmentView{
			NewFormationCode: s.reassign.NewFormation.Code,
			ToReassign:       append([]lineup.FlaggedPlayer(nil), s.reassign.ToReassign...),
			Mapping:          s.reassign.Mapping(),
			Complete:         s.reassign.Complete(),
		}
	}
	return view
}

func (s *Session) notifyLocked() SessionView {
	view := s.viewLocked()
	for _, fn := range s.observers {
		fn(view)
	}
	return view
}
