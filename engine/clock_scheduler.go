package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-flight/parameter"
)

// ClockScheduler drives Game.Step on a fixed tick
// Deadlines advance by whole intervals for drift correction; pause-aware without busy-wait
type ClockScheduler struct {
	game  *Game
	clock *PausableClock

	// Tick configuration
	tickInterval     time.Duration
	nextTickDeadline time.Time // Next tick deadline for drift correction

	// Tick counter for debugging and HUD
	tickCount atomic.Uint64
	mu        sync.RWMutex

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// updateDone signals a completed tick, non-blocking, capacity 1
	updateDone chan struct{}

	crashHandler func(any)
}

// NewClockScheduler creates a scheduler for game; interval <= 0 uses the default tick
// Returns the scheduler and the receive side of its tick-done channel
func NewClockScheduler(game *Game, tickInterval time.Duration) (*ClockScheduler, <-chan struct{}) {
	if tickInterval <= 0 {
		tickInterval = parameter.TickInterval
	}
	updateDone := make(chan struct{}, 1)
	cs := &ClockScheduler{
		game:         game,
		clock:        game.Context().Clock,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		updateDone:   updateDone,
	}
	return cs, updateDone
}

// SetCrashHandler replaces the default log-and-continue handling of a panicking tick
// Must be called before Start()
func (cs *ClockScheduler) SetCrashHandler(fn func(any)) {
	cs.crashHandler = fn
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		go cs.schedulerLoop()
	}
}

// Stop halts the scheduler loop and waits for the in-flight tick
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// IsRunning reports whether the loop is active
func (cs *ClockScheduler) IsRunning() bool {
	return cs.running.Load()
}

// TickCount returns ticks executed by this scheduler
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// TickInterval returns the fixed step
func (cs *ClockScheduler) TickInterval() time.Duration {
	return cs.tickInterval
}

// schedulerLoop runs the main scheduling loop with pause awareness
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.nextTickDeadline = cs.clock.Now().Add(cs.tickInterval)
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Increase sleep interval while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			gameNow := cs.clock.Now()

			cs.mu.RLock()
			deadline := cs.nextTickDeadline
			cs.mu.RUnlock()

			if !gameNow.Before(deadline) {
				cs.processTick()

				cs.mu.Lock()
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)

				// Too far behind: drop the backlog instead of replaying it
				maxBehind := cs.tickInterval * parameter.MaxTickCatchUp
				if gameNow.Sub(cs.nextTickDeadline) > maxBehind {
					cs.nextTickDeadline = gameNow.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				cs.tickCount.Add(1)

				select {
				case cs.updateDone <- struct{}{}:
				default:
				}

				sleepDuration = deadline.Sub(cs.clock.Now())
			} else {
				sleepDuration = deadline.Sub(gameNow)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}

// processTick runs one step; a panic goes to the crash handler or the log
func (cs *ClockScheduler) processTick() {
	defer func() {
		if r := recover(); r != nil {
			if cs.crashHandler != nil {
				cs.crashHandler(r)
				return
			}
			cs.game.Context().Log.Error("engine: tick panicked", "panic", r)
		}
	}()
	cs.game.Step(cs.tickInterval)
}
