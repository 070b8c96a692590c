package gamefeed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/matchdayhq/matchday/internal/domain/game"
)

// Handler consumes one feed envelope. Handlers run on the worker pool, so a
// slow handler delays its own envelope but not the dispatch loop.
type Handler func(ctx context.Context, env game.FeedEnvelope)

// Broker is the in-process event feed: services publish envelopes, handlers
// (session refresh, webhook forwarding) and long-poll subscribers receive
// them. Delivery order is preserved per dispatch loop; handler execution is
// fanned out on the pool.
type Broker struct {
	logger *slog.Logger
	pool   *ants.Pool
	queue  chan game.FeedEnvelope
	loop   conc.WaitGroup

	mu       sync.Mutex
	handlers []Handler
	subs     map[string]map[int]chan game.FeedEnvelope
	nextSub  int
	closed   bool
}

func NewBroker(workers, buffer int, logger *slog.Logger) (*Broker, error) {
	if workers <= 0 {
		workers = 4
	}
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create feed worker pool: %w", err)
	}

	b := &Broker{
		logger: logger,
		pool:   pool,
		queue:  make(chan game.FeedEnvelope, buffer),
		subs:   make(map[string]map[int]chan game.FeedEnvelope),
	}
	b.loop.Go(b.run)
	return b, nil
}

// RegisterHandler attaches a handler to every future envelope.
func (b *Broker) RegisterHandler(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish enqueues an envelope for dispatch. The feed is advisory: when the
// queue is full the envelope is dropped with a warning rather than blocking
// the mutation that produced it.
func (b *Broker) Publish(ctx context.Context, env game.FeedEnvelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	select {
	case b.queue <- env:
	default:
		b.logger.WarnContext(ctx, "feed queue full, dropping envelope",
			slog.String("gameID", env.GameID), slog.String("action", string(env.Action)))
	}
}

// Subscribe returns a channel of envelopes for one game plus a cancel
// function. Slow subscribers lose envelopes instead of stalling dispatch;
// long-poll readers refetch on reconnect anyway.
func (b *Broker) Subscribe(gameID string) (<-chan game.FeedEnvelope, func()) {
	ch := make(chan game.FeedEnvelope, 16)

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[int]chan game.FeedEnvelope)
	}
	b.subs[gameID][id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.subs[gameID]; ok {
			if _, live := subs[id]; live {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(b.subs, gameID)
			}
		}
	}
	return ch, cancel
}

// Close stops dispatch and waits for in-flight handlers.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	b.loop.Wait()
	b.pool.Release()
}

func (b *Broker) run() {
	for env := range b.queue {
		b.dispatch(env)
	}
}

func (b *Broker) dispatch(env game.FeedEnvelope) {
	b.mu.Lock()
	handlers := append([]Handler(nil), b.handlers...)
	var targets []chan game.FeedEnvelope
	for _, ch := range b.subs[env.GameID] {
		targets = append(targets, ch)
	}
	b.mu.Unlock()

	var wg sync.WaitGroup
	for _, h := range handlers {
		handler := h
		wg.Add(1)
		if err := b.pool.Submit(func() {
			defer wg.Done()
			handler(context.Background(), env)
		}); err != nil {
			wg.Done()
			b.logger.Warn("submit feed handler failed", slog.Any("error", err))
		}
	}
	wg.Wait()

	for _, ch := range targets {
		select {
		case ch <- env:
		default:
			b.logger.Warn("subscriber lagging, dropping envelope",
				slog.String("gameID", env.GameID), slog.String("action", string(env.Action)))
		}
	}
}
