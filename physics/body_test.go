package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-flight/parameter"
)

const dt = 1.0 / 60

func TestIntegrateSemiImplicit(t *testing.T) {
	pos, vel := Integrate(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 2, 0}, 0.5)
	assert.Equal(t, mgl64.Vec3{1, 1, 0}, vel)
	assert.Equal(t, mgl64.Vec3{0.5, 0.5, 0}, pos, "position uses the updated velocity")
}

func TestCapSpeed(t *testing.T) {
	v, clamped := CapSpeed(mgl64.Vec3{3, 4, 0}, 10)
	assert.False(t, clamped)
	assert.Equal(t, mgl64.Vec3{3, 4, 0}, v)

	v, clamped = CapSpeed(mgl64.Vec3{3, 4, 0}, 1)
	assert.True(t, clamped)
	assert.InDelta(t, 1.0, v.Len(), 1e-12)

	_, clamped = CapSpeed(mgl64.Vec3{100, 0, 0}, 0)
	assert.False(t, clamped, "zero max disables the cap")
}

func TestDirectionOfZeroIsZero(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, Direction(mgl64.Vec3{}))
	assert.InDelta(t, 1.0, Direction(mgl64.Vec3{0, 0, -7}).Len(), 1e-12)
}

func TestShipBodyConfigFacesRotatedYaw(t *testing.T) {
	b := NewBody(ShipBodyConfig())
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, b.Translation())
	assert.InDelta(t, 90.0, Heading(b.Rotation()), 1e-9)
	assert.Equal(t, 5.0, b.Mass())
}

func TestBodyForceIntegration(t *testing.T) {
	b := NewBody(BodyConfig{Mass: 2})
	b.ApplyForce(mgl64.Vec3{4, 0, 0}, true)
	b.Step(1, mgl64.Vec3{})

	assert.Equal(t, mgl64.Vec3{2, 0, 0}, b.LinearVelocity())
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, b.Translation())

	b.Step(1, mgl64.Vec3{})
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, b.LinearVelocity(), "accumulators clear after each step")
}

func TestBodyDampingAndGravityScale(t *testing.T) {
	b := NewBody(BodyConfig{Mass: 1, LinearDamping: 1, GravityScale: 0.5, LinearVelocity: mgl64.Vec3{2, 0, 0}})
	b.Step(1, mgl64.Vec3{0, -10, 0})

	v := b.LinearVelocity()
	assert.InDelta(t, 1.0, v.X(), 1e-12)
	assert.InDelta(t, -2.5, v.Y(), 1e-12)
}

func TestBodyTorqueRotatesAboutAxis(t *testing.T) {
	b := NewBody(BodyConfig{Mass: 1, Inertia: 1, AngularVelocity: mgl64.Vec3{0, math.Pi / 2, 0}})

	for i := 0; i < 600; i++ {
		b.Step(1.0/600, mgl64.Vec3{})
	}

	assert.InDelta(t, 90.0, Heading(b.Rotation()), 0.5)
	assert.InDelta(t, 1.0, b.Rotation().Len(), 1e-9, "orientation stays unit length")
}

func TestSleepingBodyWakesOnlyWhenAsked(t *testing.T) {
	b := NewBody(BodyConfig{Mass: 1})
	b.Sleep()
	require.True(t, b.Sleeping())

	b.ApplyForce(mgl64.Vec3{1, 0, 0}, false)
	b.ApplyTorque(mgl64.Vec3{0, 1, 0}, false)
	b.Step(dt, mgl64.Vec3{})
	assert.Equal(t, mgl64.Vec3{}, b.LinearVelocity())
	assert.True(t, b.Sleeping())

	b.ApplyForce(mgl64.Vec3{60, 0, 0}, true)
	b.Step(dt, mgl64.Vec3{})
	assert.False(t, b.Sleeping())
	assert.InDelta(t, 1.0, b.LinearVelocity().X(), 1e-9)
}

func TestWorldAddRemoveStep(t *testing.T) {
	w := NewWorld(mgl64.Vec3{0, -10, 0})
	falling := w.CreateBody(BodyConfig{Mass: 1, GravityScale: 1})
	floating := w.CreateBody(BodyConfig{Mass: 1})
	w.Add(falling)
	require.Equal(t, 2, w.Len())

	w.Step(0.1)
	assert.InDelta(t, -1.0, falling.LinearVelocity().Y(), 1e-12)
	assert.Equal(t, mgl64.Vec3{}, floating.LinearVelocity())

	assert.True(t, w.Remove(falling))
	assert.False(t, w.Remove(falling))
	assert.Equal(t, 1, w.Len())

	w.Step(0.1)
	assert.InDelta(t, -1.0, falling.LinearVelocity().Y(), 1e-12, "removed bodies are not stepped")
	assert.Equal(t, uint64(2), w.Steps())
}

func TestIdleBodyFallsAsleep(t *testing.T) {
	b := NewBody(BodyConfig{Mass: 1, LinearVelocity: mgl64.Vec3{parameter.BodySleepSpeed / 2, 0, 0}})

	for i := 0; i < parameter.BodySleepSteps-1; i++ {
		b.Step(dt, mgl64.Vec3{})
	}
	require.False(t, b.Sleeping())

	b.Step(dt, mgl64.Vec3{})
	assert.True(t, b.Sleeping())
	assert.Equal(t, mgl64.Vec3{}, b.LinearVelocity(), "sleep zeroes residual drift")

	b.ApplyForce(mgl64.Vec3{1, 0, 0}, false)
	b.Step(dt, mgl64.Vec3{})
	assert.True(t, b.Sleeping(), "a non-waking force is dropped")

	b.ApplyTorque(mgl64.Vec3{0, 1, 0}, true)
	b.Step(dt, mgl64.Vec3{})
	assert.False(t, b.Sleeping())
	assert.Greater(t, b.AngularVelocity().Y(), 0.0)
}

func TestForcedOrMovingBodyStaysAwake(t *testing.T) {
	moving := NewBody(BodyConfig{Mass: 1, LinearVelocity: mgl64.Vec3{1, 0, 0}})
	pushed := NewBody(BodyConfig{Mass: 1})

	for i := 0; i < 2*parameter.BodySleepSteps; i++ {
		moving.Step(dt, mgl64.Vec3{})
		pushed.ApplyForce(mgl64.Vec3{1e-6, 0, 0}, false)
		pushed.Step(dt, mgl64.Vec3{})
	}

	assert.False(t, moving.Sleeping())
	assert.False(t, pushed.Sleeping(), "a force each step resets the idle count")
}
