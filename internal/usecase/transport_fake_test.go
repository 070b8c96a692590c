package usecase

import (
	"context"
	"fmt"

	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/lineup"
)

// fakeTransport is an in-memory lineup.Transport with per-call failure
// hooks, standing in for the roster service in engine and session tests.
type fakeTransport struct {
	entries []roster.GameRosterEntry
	nextID  int

	addCalls        []lineup.AddPlayerInput
	updateCalls     []positionUpdate
	subCalls        []lineup.SubstituteInput
	posChangeCalls  []lineup.PositionChangeInput
	swapCalls       []lineup.SwapInput
	secondHalfCalls [][]lineup.PlannedSlot
	removedIDs      []string

	addErr        error
	addErrFn      func(input lineup.AddPlayerInput) error
	secondHalfErr error
	updateErr     func(gameEventID, position string) error
	onSecondHalf  func()
}

type positionUpdate struct {
	gameEventID string
	position    string
}

func newFakeTransport(entries ...roster.GameRosterEntry) *fakeTransport {
	return &fakeTransport{entries: entries}
}

func (f *fakeTransport) find(gameEventID string) (int, bool) {
	for i, e := range f.entries {
		if e.GameEventID == gameEventID {
			return i, true
		}
	}
	return 0, false
}

func (f *fakeTransport) AddPlayerToGameRoster(_ context.Context, input lineup.AddPlayerInput) (roster.GameRosterEntry, error) {
	f.addCalls = append(f.addCalls, input)
	if f.addErr != nil {
		return roster.GameRosterEntry{}, f.addErr
	}
	if f.addErrFn != nil {
		if err := f.addErrFn(input); err != nil {
			return roster.GameRosterEntry{}, err
		}
	}
	f.nextID++
	e := roster.GameRosterEntry{
		GameEventID:          fmt.Sprintf("ge-new-%d", f.nextID),
		GameID:               input.GameID,
		PlayerID:             input.PlayerID,
		ExternalPlayerName:   input.ExternalPlayerName,
		ExternalPlayerNumber: input.ExternalPlayerNumber,
		Position:             input.Position,
	}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeTransport) UpdatePosition(_ context.Context, gameEventID, position string) (roster.GameRosterEntry, error) {
	f.updateCalls = append(f.updateCalls, positionUpdate{gameEventID, position})
	if f.updateErr != nil {
		if err := f.updateErr(gameEventID, position); err != nil {
			return roster.GameRosterEntry{}, err
		}
	}
	i, ok := f.find(gameEventID)
	if !ok {
		return roster.GameRosterEntry{}, fmt.Errorf("entry %s not found", gameEventID)
	}
	f.entries[i].Position = position
	return f.entries[i], nil
}

func (f *fakeTransport) RemoveFromLineup(_ context.Context, gameEventID string) error {
	f.removedIDs = append(f.removedIDs, gameEventID)
	i, ok := f.find(gameEventID)
	if !ok {
		return fmt.Errorf("entry %s not found", gameEventID)
	}
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	return nil
}

func (f *fakeTransport) SubstitutePlayer(_ context.Context, input lineup.SubstituteInput) (roster.GameRosterEntry, error) {
	f.subCalls = append(f.subCalls, input)
	i, ok := f.find(input.PlayerOutEventID)
	if !ok {
		return roster.GameRosterEntry{}, fmt.Errorf("entry %s not found", input.PlayerOutEventID)
	}
	pos := f.entries[i].Position
	f.entries[i].Position = ""

	if input.PlayerIn.Kind == roster.RefGameEntry {
		j, ok := f.find(input.PlayerIn.GameEventID)
		if !ok {
			return roster.GameRosterEntry{}, fmt.Errorf("entry %s not found", input.PlayerIn.GameEventID)
		}
		f.entries[j].Position = pos
		return f.entries[j], nil
	}

	f.nextID++
	e := roster.GameRosterEntry{
		GameEventID: fmt.Sprintf("ge-new-%d", f.nextID),
		GameID:      input.GameID,
		PlayerID:    input.PlayerIn.PlayerID,
		Position:    pos,
	}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeTransport) RecordPositionChange(_ context.Context, input lineup.PositionChangeInput) (roster.GameRosterEntry, error) {
	f.posChangeCalls = append(f.posChangeCalls, input)
	i, ok := f.find(input.PlayerEventID)
	if !ok {
		return roster.GameRosterEntry{}, fmt.Errorf("entry %s not found", input.PlayerEventID)
	}
	f.entries[i].Position = input.NewPosition
	return f.entries[i], nil
}

func (f *fakeTransport) SetSecondHalfLineup(_ context.Context, _ string, slots []lineup.PlannedSlot) (lineup.SecondHalfResult, error) {
	f.secondHalfCalls = append(f.secondHalfCalls, slots)
	if f.onSecondHalf != nil {
		f.onSecondHalf()
	}
	if f.secondHalfErr != nil {
		return lineup.SecondHalfResult{}, f.secondHalfErr
	}
	for i := range f.entries {
		f.entries[i].Position = ""
	}
	for _, slot := range slots {
		if slot.Player.Kind == roster.RefGameEntry {
			if i, ok := f.find(slot.Player.GameEventID); ok {
				f.entries[i].Position = slot.Position
			}
		}
	}
	return lineup.SecondHalfResult{SubsIn: f.clone()}, nil
}

func (f *fakeTransport) SwapPositions(_ context.Context, input lineup.SwapInput) ([]roster.GameRosterEntry, error) {
	f.swapCalls = append(f.swapCalls, input)
	i, ok1 := f.find(input.Player1EventID)
	j, ok2 := f.find(input.Player2EventID)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("swap entries not found")
	}
	f.entries[i].Position, f.entries[j].Position = f.entries[j].Position, f.entries[i].Position
	return f.clone(), nil
}

func (f *fakeTransport) BatchLineupChanges(ctx context.Context, input lineup.BatchInput) ([]roster.GameRosterEntry, error) {
	for _, sub := range input.Substitutions {
		if _, err := f.SubstitutePlayer(ctx, sub); err != nil {
			return nil, err
		}
	}
	for _, swap := range input.Swaps {
		if _, err := f.SwapPositions(ctx, swap); err != nil {
			return nil, err
		}
	}
	return f.clone(), nil
}

func (f *fakeTransport) RefetchRoster(_ context.Context, _ string) ([]roster.GameRosterEntry, error) {
	return f.clone(), nil
}

func (f *fakeTransport) clone() []roster.GameRosterEntry {
	return append([]roster.GameRosterEntry(nil), f.entries...)
}

func (f *fakeTransport) positionOf(gameEventID string) string {
	if i, ok := f.find(gameEventID); ok {
		return f.entries[i].Position
	}
	return "<gone>"
}
