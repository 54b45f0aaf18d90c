package flight

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-flight/engine"
	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
)

func newGame(t *testing.T) (*engine.Game, *engine.MockTimeProvider) {
	t.Helper()
	ctx, mock := engine.NewTestContext(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return engine.NewGame(ctx), mock
}

func run(g *engine.Game, mock *engine.MockTimeProvider, ticks int) {
	for i := 0; i < ticks; i++ {
		g.Step(tick)
		mock.Advance(tick)
	}
}

func TestForwardKeyHundredTicks(t *testing.T) {
	game, mock := newGame(t)
	ctx := game.Context()
	ship := NewShip(ctx)
	game.AddEntity(ship)

	ctx.Input.OnKeyDown(input.KeyW)
	run(game, mock, 100)

	body := ship.Body()
	forward := body.Rotation().Rotate(mgl64.Vec3{1, 0, 0})
	speed := body.LinearVelocity().Dot(forward)

	assert.Greater(t, speed, 0.0)
	assert.LessOrEqual(t, speed, parameter.FlightMaxLinearSpeed)
	assert.InDelta(t, 0, body.LinearVelocity().Y(), 1e-12, "gravity scale is zero")
}

func TestShipPublishesTelemetryAfterStep(t *testing.T) {
	game, mock := newGame(t)
	ctx := game.Context()
	ship := NewShip(ctx)
	game.AddEntity(ship)

	var got []Telemetry
	ctx.Bus.Subscribe(TopicTelemetry, func(args ...any) any {
		got = append(got, args[0].(Telemetry))
		return nil
	})

	ctx.Input.OnKeyDown(input.KeyW)
	ctx.Input.OnKeyDown(input.KeyD)
	run(game, mock, 3)

	require.Len(t, got, 3)
	last := got[2]
	assert.Equal(t, uint64(3), last.Tick)
	assert.True(t, last.Turning)
	assert.Equal(t, mgl64.Vec2{1, 1}, last.Actions.Movement)
	assert.Greater(t, last.Speed, 0.0)
	assert.Greater(t, last.AngularSpeed, 0.0)
	assert.Equal(t, last, ship.Telemetry())
	assert.Equal(t, ship.Body().Translation(), last.Position, "telemetry reflects the integrated state")
}

func TestShipUsesInjectedActions(t *testing.T) {
	game, mock := newGame(t)
	ctx := game.Context()
	src := &staticActions{a: input.FlightActions{Movement: mgl64.Vec2{-1, 0}}}
	ship := NewShip(ctx, WithActions(src), WithShipName("probe"))
	game.AddEntity(ship)

	run(game, mock, 5)

	assert.Equal(t, "probe", ship.Name())
	assert.Less(t, ship.Body().AngularVelocity().Y(), 0.0, "negative roll spins about -Y")
	assert.Equal(t, -1.0, ship.Controller().RollInput())
}

func TestShipDisposeDetaches(t *testing.T) {
	game, mock := newGame(t)
	ctx := game.Context()
	ship := NewShip(ctx)
	game.AddEntity(ship)
	require.Equal(t, 1, ctx.World.Len())

	telemetry := 0
	ctx.Bus.Subscribe(TopicTelemetry, func(...any) any { telemetry++; return nil })

	require.True(t, game.RemoveEntity(ship))
	run(game, mock, 2)

	assert.Zero(t, ctx.World.Len())
	assert.Zero(t, telemetry, "tick subscription removed")
	assert.Equal(t, 0, ctx.Bus.CountListeners(engine.TopicTick))
}

func TestMapperPublishesThroughManagerWhileShipPulls(t *testing.T) {
	game, mock := newGame(t)
	ctx := game.Context()
	mapper := input.NewFlightActionMapper(ctx.Input.Keys())
	ctx.Input.RegisterMapper(mapper)
	ship := NewShip(ctx, WithActions(mapper))
	game.AddEntity(ship)

	var pushed []input.FlightActions
	ctx.Bus.Subscribe(input.FlightMapperName, func(args ...any) any {
		pushed = append(pushed, args[0].(input.FlightActions))
		return nil
	})

	ctx.Input.OnKeyDown(input.KeyW)
	run(game, mock, 10)

	assert.Len(t, pushed, 1, "bus only sees the change")
	in, ok := ship.Controller().Input()
	require.True(t, ok)
	assert.Equal(t, pushed[0], in)
}

func TestIdleShipSleepsAndThrottleWakesIt(t *testing.T) {
	game, mock := newGame(t)
	ctx := game.Context()
	ship := NewShip(ctx)
	game.AddEntity(ship)

	run(game, mock, parameter.BodySleepSteps)
	require.True(t, ship.Telemetry().Asleep)

	ctx.Input.OnKeyDown(input.KeyW)
	run(game, mock, 1)

	assert.False(t, ship.Telemetry().Asleep)
	assert.Greater(t, ship.Telemetry().Speed, 0.0)
}

type staticActions struct{ a input.FlightActions }

func (s *staticActions) Current() input.FlightActions { return s.a }
