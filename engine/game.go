package engine

import (
	"sync"
	"time"

	"github.com/lixenwraith/vi-flight/parameter"
)

// Topics published by the engine
const (
	TopicTick  = parameter.TopicTick
	TopicPause = "pause"
)

// Entity is anything updated once per tick before the physics step
type Entity interface {
	Update(dt time.Duration)
	Dispose()
}

// TickInfo is the payload of the tick topic
type TickInfo struct {
	Tick uint64
	DT   time.Duration
	Time time.Time // Game time after the step
}

// Game is the composition root driving one session
//
// Step order is fixed: input update, entity updates, physics step, tick notification.
// Step must be called from a single goroutine; entities may be added from any goroutine.
type Game struct {
	ctx *Context

	mu       sync.Mutex
	entities []Entity

	ticks uint64
}

// NewGame creates a game over ctx
func NewGame(ctx *Context) *Game {
	return &Game{ctx: ctx}
}

func (g *Game) Context() *Context { return g.ctx }

// AddEntity appends e to the update order; adding the same entity twice is a no-op
func (g *Game) AddEntity(e Entity) {
	if e == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, existing := range g.entities {
		if existing == e {
			return
		}
	}
	g.entities = append(g.entities, e)
}

// RemoveEntity detaches and disposes e, reporting whether it was present
func (g *Game) RemoveEntity(e Entity) bool {
	g.mu.Lock()
	found := false
	for i, existing := range g.entities {
		if existing == e {
			g.entities = append(g.entities[:i:i], g.entities[i+1:]...)
			found = true
			break
		}
	}
	g.mu.Unlock()

	if found {
		g.dispose(e)
	}
	return found
}

// EntityCount returns the number of live entities
func (g *Game) EntityCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entities)
}

// Ticks returns completed steps
func (g *Game) Ticks() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ticks
}

// Step runs one tick of dt
// A panicking entity is logged and skipped; the remaining pipeline still runs
func (g *Game) Step(dt time.Duration) {
	if g.ctx.Input != nil {
		g.ctx.Input.Update()
	}

	g.mu.Lock()
	entities := append([]Entity(nil), g.entities...)
	g.mu.Unlock()

	for _, e := range entities {
		g.update(e, dt)
	}

	if g.ctx.World != nil {
		g.ctx.World.Step(dt.Seconds())
	}

	g.mu.Lock()
	g.ticks++
	tick := g.ticks
	g.mu.Unlock()

	g.ctx.Bus.Publish(TopicTick, TickInfo{Tick: tick, DT: dt, Time: g.ctx.Clock.Now()})
}

// Dispose tears down every entity and the input manager
func (g *Game) Dispose() {
	g.mu.Lock()
	entities := g.entities
	g.entities = nil
	g.mu.Unlock()

	for i := len(entities) - 1; i >= 0; i-- {
		g.dispose(entities[i])
	}
	if g.ctx.Input != nil {
		g.ctx.Input.Dispose()
	}
}

func (g *Game) update(e Entity, dt time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			g.ctx.Log.Error("engine: entity update panicked", "entity", entityName(e), "panic", r)
		}
	}()
	e.Update(dt)
}

func (g *Game) dispose(e Entity) {
	defer func() {
		if r := recover(); r != nil {
			g.ctx.Log.Error("engine: entity dispose panicked", "entity", entityName(e), "panic", r)
		}
	}()
	e.Dispose()
}

// Named entities report a readable name in logs
type Named interface {
	Name() string
}

func entityName(e Entity) string {
	if n, ok := e.(Named); ok {
		return n.Name()
	}
	return "anonymous"
}
