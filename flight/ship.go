package flight

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-flight/engine"
	"github.com/lixenwraith/vi-flight/event"
	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
	"github.com/lixenwraith/vi-flight/physics"
)

// TopicTelemetry carries a Telemetry value after every physics step
const TopicTelemetry = parameter.TopicTelemetry

// ActionSource yields the live action bundle each tick
type ActionSource interface {
	Current() input.FlightActions
}

// Telemetry is the post-step state of a ship
type Telemetry struct {
	Tick         uint64
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Speed        float64
	AngularSpeed float64 // rad/s
	Heading      float64 // Degrees
	Turning      bool
	Asleep       bool // Body came to rest and stopped integrating
	Actions      input.FlightActions
}

// Ship owns one body and the single controller allowed to actuate it
type Ship struct {
	name       string
	body       *physics.Body
	world      *physics.World
	controller *Controller
	actions    ActionSource
	bus        *event.Bus
	log        *slog.Logger
	tickSub    event.ListenerID

	mu   sync.RWMutex
	last Telemetry
}

// ShipOption configures a Ship
type ShipOption func(*shipOptions)

type shipOptions struct {
	name    string
	body    physics.BodyConfig
	tuning  Tuning
	actions ActionSource
}

// WithShipName sets the entity name used in logs
func WithShipName(name string) ShipOption {
	return func(o *shipOptions) { o.name = name }
}

// WithBody overrides the spawn body configuration
func WithBody(cfg physics.BodyConfig) ShipOption {
	return func(o *shipOptions) { o.body = cfg }
}

// WithTuning overrides the controller coefficients
func WithTuning(t Tuning) ShipOption {
	return func(o *shipOptions) { o.tuning = t }
}

// WithActions replaces the action source; default is a flight mapper over ctx.Input
func WithActions(src ActionSource) ShipOption {
	return func(o *shipOptions) { o.actions = src }
}

// NewShip spawns a body in ctx.World and subscribes to the tick topic for telemetry
func NewShip(ctx *engine.Context, opts ...ShipOption) *Ship {
	o := shipOptions{
		name:   "ship",
		body:   physics.ShipBodyConfig(),
		tuning: DefaultTuning(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.actions == nil {
		o.actions = input.NewFlightActionMapper(ctx.Input.Keys())
	}

	s := &Ship{
		name:       o.name,
		body:       ctx.World.CreateBody(o.body),
		world:      ctx.World,
		controller: NewController(o.tuning),
		actions:    o.actions,
		bus:        ctx.Bus,
		log:        ctx.Log.With("entity", o.name),
	}

	// Telemetry reflects the integrated state, so it is emitted after the physics step
	s.tickSub, _ = ctx.Bus.Listen(engine.TopicTick, func(args ...any) any {
		var tick uint64
		if len(args) > 0 {
			if info, ok := args[0].(engine.TickInfo); ok {
				tick = info.Tick
			}
		}
		s.publishTelemetry(tick)
		return nil
	}, false)

	s.log.Debug("ship spawned", "position", s.body.Translation(), "heading", physics.Heading(s.body.Rotation()))
	return s
}

func (s *Ship) Name() string { return s.name }

// Body exposes the ship's rigid body
func (s *Ship) Body() *physics.Body { return s.body }

// Controller exposes the live-tunable controller
func (s *Ship) Controller() *Controller { return s.controller }

// Update pulls the latest actions and actuates the body
func (s *Ship) Update(time.Duration) {
	s.controller.SetInput(s.actions.Current())
	s.controller.ApplyForTick(s.body)
}

// Telemetry returns the most recently published telemetry
func (s *Ship) Telemetry() Telemetry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Dispose unsubscribes from the bus and removes the body from the world
func (s *Ship) Dispose() {
	s.bus.UnsubscribeID(engine.TopicTick, s.tickSub)
	s.world.Remove(s.body)
	s.controller.ClearInput()
}

func (s *Ship) publishTelemetry(tick uint64) {
	snap := s.body.Snapshot()
	a, _ := s.controller.Input()
	t := Telemetry{
		Tick:         tick,
		Position:     snap.Translation,
		Velocity:     snap.LinearVelocity,
		Speed:        snap.LinearVelocity.Len(),
		AngularSpeed: snap.AngularVelocity.Len(),
		Heading:      physics.Heading(snap.Rotation),
		Turning:      s.controller.IsTurning(),
		Asleep:       snap.Sleeping,
		Actions:      a,
	}
	s.mu.Lock()
	s.last = t
	s.mu.Unlock()
	s.bus.Publish(TopicTelemetry, t)
}
