package logging

import (
	"context"
	"log/slog"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogBridge_WritesThroughZapCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewSlogLogger(FromZap(zap.New(core)))

	logger.Info("roster updated", "game_id", "game-1", "entries", 9)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "roster updated" {
		t.Fatalf("unexpected message: %q", entries[0].Message)
	}
	fields := entries[0].ContextMap()
	if fields["game_id"] != "game-1" {
		t.Fatalf("expected game_id field, got %v", fields)
	}
}

func TestSlogBridge_GroupPrefixesKeys(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewSlogLogger(FromZap(zap.New(core))).WithGroup("http")

	logger.Warn("request failed", "status", 502)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["http.status"]; !ok {
		t.Fatalf("expected http.status key, got %v", entries[0].ContextMap())
	}
}

func TestMirror_ReceivesRecords(t *testing.T) {
	type record struct {
		level Level
		msg   string
	}
	got := make([]record, 0, 1)
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		got = append(got, record{level: level, msg: msg})
	})
	t.Cleanup(func() { SetMirror(nil) })

	core, _ := observer.New(zapcore.DebugLevel)
	logger := NewSlogLogger(FromZap(zap.New(core)))
	logger.Error("commit failed", "error", "boom")

	if len(got) != 1 {
		t.Fatalf("expected mirror to receive 1 record, got %d", len(got))
	}
	if got[0].level != LevelError || got[0].msg != "commit failed" {
		t.Fatalf("unexpected mirrored record: %+v", got[0])
	}
}

var _ slog.Handler = (*slogBridge)(nil)
