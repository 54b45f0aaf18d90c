package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-flight/event"
	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/physics"
)

// Context carries the shared subsystems handed to every entity at construction
// There is one Context per session; nothing looks subsystems up by name
type Context struct {
	// ===== Immutable After Init =====
	// Set once during NewContext. Pointers never modified.
	// Each subsystem has its own internal synchronization.

	Bus   *event.Bus     // Notification hub for input, telemetry and tick topics
	Input *input.Manager // Authoritative raw input source for the session
	World *physics.World // Owner of every rigid body
	Clock *PausableClock // Game time; frozen while paused
	Log   *slog.Logger

	// ===== Atomic (Self-Synchronized) =====

	FrameNumber atomic.Int64 // Render frame counter; incremented by the HUD loop
	IsMuted     atomic.Bool  // Mute flag; read by the audio cue
}

// ContextConfig selects the collaborators NewContext builds
type ContextConfig struct {
	Time           TimeProvider // nil uses the monotonic provider
	Log            *slog.Logger // nil uses slog.Default
	InputNamespace string       // Empty publishes input topics in the default namespace
	Gravity        mgl64.Vec3
}

// NewContext builds the bus, input manager, world and clock for one session
func NewContext(cfg ContextConfig) *Context {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	clock := NewPausableClock(cfg.Time)
	bus := event.NewBus(event.WithLogger(log.With("component", "event")))

	mgr := input.NewManager(bus,
		input.WithNamespace(cfg.InputNamespace),
		input.WithClock(clock),
		input.WithLogger(log.With("component", "input")),
	)

	return &Context{
		Bus:   bus,
		Input: mgr,
		World: physics.NewWorld(cfg.Gravity),
		Clock: clock,
		Log:   log,
	}
}

// IsPaused reports whether game time is frozen
func (ctx *Context) IsPaused() bool {
	return ctx.Clock.IsPaused()
}

// TogglePause flips pause, publishes the new state and returns it
func (ctx *Context) TogglePause() bool {
	paused := ctx.Clock.Toggle()
	ctx.Bus.Publish(TopicPause, paused)
	return paused
}
