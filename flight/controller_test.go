package flight

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
	"github.com/lixenwraith/vi-flight/physics"
)

const tick = time.Second / 60

// fakeBody records every actuation without integrating
type fakeBody struct {
	rot     mgl64.Quat
	lin     mgl64.Vec3
	ang     mgl64.Vec3
	forces  []mgl64.Vec3
	torques []mgl64.Vec3
	wakes   []bool
}

func newFakeBody() *fakeBody { return &fakeBody{rot: mgl64.QuatIdent()} }

func (b *fakeBody) Translation() mgl64.Vec3     { return mgl64.Vec3{} }
func (b *fakeBody) Rotation() mgl64.Quat        { return b.rot }
func (b *fakeBody) LinearVelocity() mgl64.Vec3  { return b.lin }
func (b *fakeBody) AngularVelocity() mgl64.Vec3 { return b.ang }
func (b *fakeBody) ApplyForce(f mgl64.Vec3, wake bool) {
	b.forces = append(b.forces, f)
	b.wakes = append(b.wakes, wake)
}
func (b *fakeBody) ApplyTorque(t mgl64.Vec3, wake bool) {
	b.torques = append(b.torques, t)
	b.wakes = append(b.wakes, wake)
}

func actions(x, y float64) input.FlightActions {
	return input.FlightActions{Movement: mgl64.Vec2{x, y}}
}

func TestApplyForTickNoOpWhenNotReady(t *testing.T) {
	c := NewController(DefaultTuning())

	assert.NotPanics(t, func() { c.ApplyForTick(nil) })

	b := newFakeBody()
	c.ApplyForTick(b)
	assert.Empty(t, b.forces, "no input yet")

	c.SetInput(actions(1, 1))
	b.rot = mgl64.Quat{}
	c.ApplyForTick(b)
	assert.Empty(t, b.forces, "orientation unavailable")
	assert.Empty(t, b.torques)

	c.ClearInput()
	_, ok := c.Input()
	assert.False(t, ok)
}

func TestDriveTorqueAboutUpAxis(t *testing.T) {
	c := NewController(DefaultTuning())
	b := newFakeBody()
	c.SetInput(actions(1, 0))

	c.ApplyForTick(b)

	require.Len(t, b.torques, 1)
	want := 1 * parameter.FlightRollAcceleration * parameter.FlightRollInertia
	assert.InDelta(t, want, b.torques[0].Y(), 1e-12)
	assert.InDelta(t, 0, b.torques[0].X(), 1e-12)
	assert.Empty(t, b.forces, "zero throttle with zero speed does nothing")
	assert.True(t, b.wakes[0])
}

func TestTorqueAxisFollowsOrientation(t *testing.T) {
	c := NewController(DefaultTuning())
	b := newFakeBody()
	// Body rolled 90 degrees about +X: its up axis points along +Z
	b.rot = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})
	c.SetInput(actions(-1, 0))

	c.ApplyForTick(b)

	require.Len(t, b.torques, 1)
	assert.InDelta(t, -0.36, b.torques[0].Z(), 1e-9)
	assert.InDelta(t, 0, b.torques[0].Y(), 1e-9)
}

func TestOpposingRollKeysProduceNoTorque(t *testing.T) {
	keys := input.NewStore()
	keys.Set(input.KeyA, true)
	keys.Set(input.KeyD, true)
	mapper := input.NewFlightActionMapper(keys)

	c := NewController(DefaultTuning())
	b := newFakeBody()
	c.SetInput(mapper.Current())
	c.ApplyForTick(b)

	assert.Empty(t, b.torques)
	assert.Zero(t, c.RollInput())
}

func TestAngularCeilingStopsDrive(t *testing.T) {
	c := NewController(DefaultTuning())
	b := newFakeBody()
	b.ang = mgl64.Vec3{0, mgl64.DegToRad(parameter.FlightMaxAngularSpeed) + 0.01, 0}
	c.SetInput(actions(1, 0))

	c.ApplyForTick(b)
	assert.Empty(t, b.torques, "at the ceiling input neither drives nor brakes")
}

func TestBrakingTorqueOpposesSpin(t *testing.T) {
	tests := []struct {
		name  string
		spinY float64
		sign  float64
	}{
		{"positive spin", 0.5, -1},
		{"negative spin", -0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(DefaultTuning())
			b := newFakeBody()
			b.ang = mgl64.Vec3{0, tt.spinY, 0}
			c.SetInput(actions(0, 0))

			c.ApplyForTick(b)

			require.Len(t, b.torques, 1)
			maxAng := mgl64.DegToRad(parameter.FlightMaxAngularSpeed)
			want := tt.sign * 0.3 * 1.2 * (0.5 / maxAng) * parameter.FlightTorqueBrakeFactor
			assert.InDelta(t, want, b.torques[0].Y(), 1e-12)
		})
	}
}

func TestNoBrakingBelowResidual(t *testing.T) {
	c := NewController(DefaultTuning())
	b := newFakeBody()
	b.ang = mgl64.Vec3{0, 0.005, 0}
	b.lin = mgl64.Vec3{0.005, 0, 0}
	c.SetInput(actions(0, 0))

	c.ApplyForTick(b)

	assert.Empty(t, b.torques)
	assert.Empty(t, b.forces)
}

func TestThrustAlongForwardAxis(t *testing.T) {
	c := NewController(DefaultTuning())
	b := newFakeBody()
	b.rot = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	c.SetInput(actions(0, -1))

	c.ApplyForTick(b)

	require.Len(t, b.forces, 1)
	// Forward is +X rotated 90 degrees about +Y, i.e. -Z; reverse throttle pushes +Z
	assert.InDelta(t, 0.5, b.forces[0].Z(), 1e-9)
	assert.InDelta(t, 0, b.forces[0].X(), 1e-9)
}

func TestBrakingForceOpposesVelocity(t *testing.T) {
	c := NewController(DefaultTuning())
	b := newFakeBody()
	b.lin = mgl64.Vec3{0, 0, 6}
	c.SetInput(actions(0, 0))

	c.ApplyForTick(b)

	require.Len(t, b.forces, 1)
	want := parameter.FlightThrustAcceleration * 1 * parameter.FlightForceBrakeFactor
	assert.InDelta(t, -want, b.forces[0].Z(), 1e-12, "ratio clamps to 1 above max speed")
}

func TestBrakingForceIsFixedMagnitude(t *testing.T) {
	c := NewController(DefaultTuning())
	b := newFakeBody()
	b.lin = mgl64.Vec3{1.5, 0, 0}
	c.SetInput(actions(0, 0))

	c.ApplyForTick(b)

	require.Len(t, b.forces, 1)
	assert.InDelta(t, -0.5*0.5*1.2, b.forces[0].X(), 1e-12)
}

func TestBrakingIndependentOfTickRate(t *testing.T) {
	const simulated = 0.5 // seconds

	brakeFor := func(hz int) float64 {
		body := physics.NewBody(physics.BodyConfig{Mass: 5, LinearVelocity: mgl64.Vec3{2, 0, 0}})
		c := NewController(DefaultTuning())
		c.SetInput(actions(0, 0))
		dt := 1.0 / float64(hz)
		for i := 0; i < int(simulated*float64(hz)); i++ {
			c.ApplyForTick(body)
			body.Step(dt, mgl64.Vec3{})
		}
		return body.LinearVelocity().Len()
	}

	// Deceleration is 0.5 * (v/3) * 1.2 / 5 = 0.04v per second
	want := 2 * math.Exp(-0.04*simulated)
	for _, hz := range []int{30, 60, 120, 240} {
		got := brakeFor(hz)
		assert.Less(t, got, 2.0, "%d Hz", hz)
		assert.InDelta(t, want, got, 1e-3, "%d Hz", hz)
	}
	assert.InDelta(t, brakeFor(30), brakeFor(240), 1e-4, "speed lost does not depend on tick length")
}

func TestBoostMultiplier(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BoostMultiplier = 2
	c := NewController(tuning)
	b := newFakeBody()

	c.SetInput(input.FlightActions{Movement: mgl64.Vec2{0, 1}, Boost: true})
	c.ApplyForTick(b)
	c.SetInput(input.FlightActions{Movement: mgl64.Vec2{0, 1}})
	c.ApplyForTick(b)

	require.Len(t, b.forces, 2)
	assert.InDelta(t, 1.0, b.forces[0].X(), 1e-12)
	assert.InDelta(t, 0.5, b.forces[1].X(), 1e-12)
}

func TestIsTurning(t *testing.T) {
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 1, false},
		{1, 1, true},
		{-1, 1, true},
		{1, -1, false},
		{1, 0, false},
		{0.1, 1, false},
	}
	c := NewController(DefaultTuning())
	for _, tt := range tests {
		c.SetInput(actions(tt.x, tt.y))
		assert.Equal(t, tt.want, c.IsTurning(), "movement (%v, %v)", tt.x, tt.y)
	}
}

func TestLiveParams(t *testing.T) {
	c := NewController(DefaultTuning())

	v, ok := c.Param("thrustAcceleration")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	require.NoError(t, c.SetParam("thrustAcceleration", 2))
	assert.Equal(t, 2.0, c.Tuning().ThrustAcceleration)

	b := newFakeBody()
	c.SetInput(actions(0, 1))
	c.ApplyForTick(b)
	assert.InDelta(t, 2.0, b.forces[0].X(), 1e-12, "new coefficient applies on the next tick")

	assert.Error(t, c.SetParam("nope", 1))
	assert.Error(t, c.SetParam("maxLinearSpeed", -1))
	assert.Equal(t, 3.0, c.Tuning().MaxLinearSpeed, "rejected update leaves tuning intact")

	_, ok = c.Param("nope")
	assert.False(t, ok)
	assert.Contains(t, ParamNames(), "boostMultiplier")
	assert.Len(t, ParamNames(), 9)

	assert.Error(t, c.SetTuning(Tuning{MaxAngularSpeed: -1}))
}

func TestSpeedCeiling(t *testing.T) {
	tuning := DefaultTuning()
	body := physics.NewBody(physics.BodyConfig{Mass: 5})
	c := NewController(tuning)
	c.SetInput(actions(0, 1))

	dt := tick.Seconds()
	epsilon := tuning.ThrustAcceleration * dt / body.Mass()

	reached := false
	for i := 0; i < 4000; i++ {
		c.ApplyForTick(body)
		body.Step(dt, mgl64.Vec3{})
		speed := body.LinearVelocity().Len()
		require.LessOrEqual(t, speed, tuning.MaxLinearSpeed+epsilon+1e-9, "tick %d", i)
		if speed >= tuning.MaxLinearSpeed {
			reached = true
		}
	}
	assert.True(t, reached, "undamped body reaches the ceiling")
}

func TestBrakingMonotonicity(t *testing.T) {
	body := physics.NewBody(physics.BodyConfig{Mass: 5, LinearVelocity: mgl64.Vec3{2, 0, 0}})
	c := NewController(DefaultTuning())
	c.SetInput(actions(0, 0))

	dt := tick.Seconds()
	prev := body.LinearVelocity().Len()
	for i := 0; i < 20000; i++ {
		c.ApplyForTick(body)
		body.Step(dt, mgl64.Vec3{})
		speed := body.LinearVelocity().Len()
		require.LessOrEqual(t, speed, prev+1e-12, "tick %d", i)
		prev = speed
	}

	assert.LessOrEqual(t, prev, parameter.FlightResidualSpeed)
	assert.Greater(t, prev, 0.0, "braking stops at the residual, it does not zero")

	fake := newFakeBody()
	fake.lin = body.LinearVelocity()
	c.ApplyForTick(fake)
	assert.Empty(t, fake.forces, "no braking force below the residual")
}

func TestHeadingTracksBody(t *testing.T) {
	c := NewController(DefaultTuning())
	body := physics.NewBody(physics.ShipBodyConfig())
	c.SetInput(actions(0, 0))
	c.ApplyForTick(body)
	assert.InDelta(t, parameter.ShipInitialYaw, c.Heading(), 1e-9)
}
