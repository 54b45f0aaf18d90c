package physics

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// World owns bodies and advances them together
type World struct {
	mu      sync.Mutex
	gravity mgl64.Vec3
	bodies  []*Body
	steps   uint64
}

// NewWorld creates an empty world with the given gravity
func NewWorld(gravity mgl64.Vec3) *World {
	return &World{gravity: gravity}
}

// CreateBody builds a body from cfg and adds it
func (w *World) CreateBody(cfg BodyConfig) *Body {
	b := NewBody(cfg)
	w.Add(b)
	return b
}

// Add inserts b; adding the same body twice is a no-op
func (w *World) Add(b *Body) {
	if b == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.bodies {
		if existing == b {
			return
		}
	}
	w.bodies = append(w.bodies, b)
}

// Remove detaches b, reporting whether it was present
func (w *World) Remove(b *Body) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.bodies {
		if existing == b {
			w.bodies = append(w.bodies[:i:i], w.bodies[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

// Step advances every body by dt seconds
func (w *World) Step(dt float64) {
	w.mu.Lock()
	bodies := append([]*Body(nil), w.bodies...)
	gravity := w.gravity
	w.steps++
	w.mu.Unlock()

	for _, b := range bodies {
		b.Step(dt, gravity)
	}
}

// Steps returns the number of completed Step calls
func (w *World) Steps() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps
}
