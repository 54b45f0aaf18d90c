package engine

import (
	"io"
	"log/slog"
	"time"
)

// NewTestContext creates a Context for tests: mock time starting at start, logs discarded
// Step-driven tests advance the returned provider by one tick per Game.Step
func NewTestContext(start time.Time) (*Context, *MockTimeProvider) {
	mock := NewMockTimeProvider(start)
	ctx := NewContext(ContextConfig{
		Time: mock,
		Log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return ctx, mock
}
