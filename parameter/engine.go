package parameter

import "time"

// Game Loop & Engine Timing
const (
	// TickInterval is the fixed simulation step (~60 Hz), one input pass and one actuation pass per tick
	TickInterval = time.Second / 60

	// FrameUpdateInterval is the HUD redraw interval
	FrameUpdateInterval = 33 * time.Millisecond

	// MaxTickCatchUp bounds how many missed ticks the scheduler replays after a stall
	MaxTickCatchUp = 4
)

// Event topics published by the engine and its entities
const (
	TopicTick      = "tick"
	TopicTelemetry = "telemetry"
)

// Terminal input
const (
	// KeyReleaseTimeout synthesizes key-up for terminals, which report only presses and repeats
	// Must exceed the OS key-repeat delay so a held key stays down between repeats
	KeyReleaseTimeout = 600 * time.Millisecond

	// KeyReleaseCheckInterval is the sweep period of the release timer
	KeyReleaseCheckInterval = 25 * time.Millisecond
)
