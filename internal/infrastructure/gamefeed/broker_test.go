package gamefeed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/game"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func goalEnvelope(gameID, eventID string) game.FeedEnvelope {
	return game.FeedEnvelope{
		GameID: gameID,
		Action: game.FeedCreated,
		Event:  &game.MatchEvent{ID: eventID, GameID: gameID, Type: game.EventGoal},
	}
}

func TestBrokerDeliversToHandlersAndSubscribers(t *testing.T) {
	b, err := NewBroker(2, 16, testLogger())
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}
	defer b.Close()

	handled := make(chan game.FeedEnvelope, 1)
	b.RegisterHandler(func(_ context.Context, env game.FeedEnvelope) {
		handled <- env
	})

	ch, cancel := b.Subscribe("game-1")
	defer cancel()

	b.Publish(context.Background(), goalEnvelope("game-1", "ev-1"))

	select {
	case env := <-handled:
		if env.Event.ID != "ev-1" {
			t.Fatalf("handler got %+v", env)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("handler never received the envelope")
	}

	select {
	case env := <-ch:
		if env.Event.ID != "ev-1" {
			t.Fatalf("subscriber got %+v", env)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber never received the envelope")
	}
}

func TestBrokerScopesSubscriptionsByGame(t *testing.T) {
	b, err := NewBroker(2, 16, testLogger())
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}
	defer b.Close()

	other, cancel := b.Subscribe("game-2")
	defer cancel()

	b.Publish(context.Background(), goalEnvelope("game-1", "ev-1"))

	select {
	case env := <-other:
		t.Fatalf("game-2 subscriber received game-1 envelope %+v", env)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	b, err := NewBroker(2, 16, testLogger())
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}
	defer b.Close()

	ch, cancel := b.Subscribe("game-1")
	cancel()
	cancel() // second cancel is a no-op

	if _, open := <-ch; open {
		t.Fatalf("channel should close on cancel")
	}
}

func TestBrokerPublishAfterCloseIsDropped(t *testing.T) {
	b, err := NewBroker(2, 16, testLogger())
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}
	b.Close()

	// Must not panic on the closed queue.
	b.Publish(context.Background(), goalEnvelope("game-1", "ev-1"))
}
