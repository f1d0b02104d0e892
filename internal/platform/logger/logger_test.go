package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestFromFallsBackToDefault(t *testing.T) {
	if From(context.Background()) != slog.Default() {
		t.Fatal("expected default logger")
	}
}

func TestWithStoresLogger(t *testing.T) {
	ctx := With(context.Background(), "requestId", "r1")
	if From(ctx) == slog.Default() {
		t.Fatal("expected request scoped logger")
	}
}
