package engine

import (
	"sync"
	"time"
)

// PausableClock provides pausable game time over a real time source
// While paused Now is frozen; after resume it continues without a jump
type PausableClock struct {
	mu sync.RWMutex

	real TimeProvider

	// Base time tracking
	realStartTime time.Time // When clock was created (real time)

	// Pause state
	paused          bool
	pauseStartTime  time.Time     // When current pause started (real time)
	totalPausedTime time.Duration // Cumulative pause duration
}

// NewPausableClock creates a running clock over real; nil uses the monotonic provider
func NewPausableClock(real TimeProvider) *PausableClock {
	if real == nil {
		real = NewMonotonicTimeProvider()
	}
	return &PausableClock{
		real:          real,
		realStartTime: real.Now(),
	}
}

// Now returns current game time (affected by pause)
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.paused {
		// During pause: return frozen time at pause point
		return pc.pauseStartTime.Add(-pc.totalPausedTime)
	}
	return pc.real.Now().Add(-pc.totalPausedTime)
}

// RealTime returns the underlying time, unaffected by pause
func (pc *PausableClock) RealTime() time.Time {
	return pc.real.Now()
}

// Elapsed returns game time since creation
func (pc *PausableClock) Elapsed() time.Duration {
	return pc.Now().Sub(pc.realStartTime)
}

// Pause stops game time advancement; pausing twice is a no-op
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStartTime = pc.real.Now()
}

// Resume continues game time advancement
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.totalPausedTime += pc.real.Now().Sub(pc.pauseStartTime)
	pc.pauseStartTime = time.Time{}
	pc.paused = false
}

// Toggle flips the pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time, including a pause in progress
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.paused {
		total += pc.real.Now().Sub(pc.pauseStartTime)
	}
	return total
}
