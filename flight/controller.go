package flight

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
	"github.com/lixenwraith/vi-flight/physics"
)

var (
	upAxis      = mgl64.Vec3{0, 1, 0}
	forwardAxis = mgl64.Vec3{1, 0, 0}
)

// Controller converts flight actions into torque and force on one rigid body
//
// Each axis either drives (input outside the deadzone, below the ceiling) or brakes
// (input inside the deadzone, speed above the residual), never both in one tick.
// Rotation and translation are decided independently.
type Controller struct {
	mu       sync.RWMutex
	tuning   Tuning
	input    input.FlightActions
	hasInput bool
	heading  float64 // Degrees, refreshed on every actuation
}

// NewController creates a controller with the given tuning
func NewController(t Tuning) *Controller {
	return &Controller{tuning: t}
}

// SetInput stores the latest action bundle; no physics side effects
func (c *Controller) SetInput(a input.FlightActions) {
	c.mu.Lock()
	c.input = a
	c.hasInput = true
	c.mu.Unlock()
}

// Input returns the stored bundle and whether one was ever set
func (c *Controller) Input() (input.FlightActions, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.input, c.hasInput
}

// ClearInput returns the controller to the not-ready state
func (c *Controller) ClearInput() {
	c.mu.Lock()
	c.input = input.FlightActions{}
	c.hasInput = false
	c.mu.Unlock()
}

// RollInput is the yaw-axis input, movement.x
func (c *Controller) RollInput() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.input.Movement.X()
}

// ThrustInput is the throttle input, movement.y
func (c *Controller) ThrustInput() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.input.Movement.Y()
}

// IsTurning reports forward throttle combined with roll beyond the turn threshold
// Informational; actuation does not depend on it
func (c *Controller) IsTurning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.input.Movement.Y() > 0 && math.Abs(c.input.Movement.X()) > parameter.FlightTurnThreshold
}

// Heading returns the body yaw in degrees observed at the last actuation
func (c *Controller) Heading() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.heading
}

func (c *Controller) Tuning() Tuning {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tuning
}

// SetTuning replaces all coefficients; takes effect on the next tick
func (c *Controller) SetTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.tuning = t
	c.mu.Unlock()
	return nil
}

// UpdateTuning applies fn to a copy and installs it if still valid
func (c *Controller) UpdateTuning(fn func(*Tuning)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.tuning
	fn(&t)
	if err := t.Validate(); err != nil {
		return err
	}
	c.tuning = t
	return nil
}

// Param reads one coefficient by name
func (c *Controller) Param(name string) (float64, bool) {
	p, ok := params[name]
	if !ok {
		return 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return p.get(&c.tuning), true
}

// SetParam writes one coefficient by name
func (c *Controller) SetParam(name string, v float64) error {
	p, ok := params[name]
	if !ok {
		return fmt.Errorf("flight: unknown parameter %q", name)
	}
	return c.UpdateTuning(func(t *Tuning) { p.set(t, v) })
}

// ApplyForTick computes and applies this tick's torque and force
// No-op when body, its orientation, or an input bundle is unavailable.
// Magnitudes are forces, not per-tick impulses: the body integrates them over its own step,
// so braking decelerates at the same rate whatever the tick length.
func (c *Controller) ApplyForTick(body physics.RigidBody) {
	if body == nil {
		return
	}
	rot := body.Rotation()
	if rot == (mgl64.Quat{}) {
		return
	}

	c.mu.RLock()
	a, ready, t := c.input, c.hasInput, c.tuning
	c.mu.RUnlock()
	if !ready {
		return
	}

	c.applyRotation(body, rot, a.Movement.X(), t)
	c.applyThrust(body, rot, a, t)

	c.mu.Lock()
	c.heading = physics.Heading(rot)
	c.mu.Unlock()
}

func (c *Controller) applyRotation(body physics.RigidBody, rot mgl64.Quat, roll float64, t Tuning) {
	angVel := body.AngularVelocity()
	angSpeed := angVel.Len()
	maxAng := mgl64.DegToRad(t.MaxAngularSpeed)
	yaw := rot.Rotate(upAxis)

	switch {
	case math.Abs(roll) > parameter.FlightInputDeadzone && angSpeed < maxAng:
		body.ApplyTorque(yaw.Mul(roll*t.RollAcceleration*t.RollInertia), true)

	case math.Abs(roll) <= parameter.FlightInputDeadzone && angSpeed > parameter.FlightResidualSpeed:
		ratio := speedRatio(angSpeed, maxAng)
		strength := -sign(angVel.Y()) * t.RollAcceleration * t.RollInertia * ratio *
			parameter.FlightTorqueBrakeFactor
		if strength != 0 {
			body.ApplyTorque(yaw.Mul(strength), true)
		}
	}
}

func (c *Controller) applyThrust(body physics.RigidBody, rot mgl64.Quat, a input.FlightActions, t Tuning) {
	thrust := a.Movement.Y()
	vel := body.LinearVelocity()
	speed := vel.Len()

	switch {
	case math.Abs(thrust) > parameter.FlightInputDeadzone && speed < t.MaxLinearSpeed:
		strength := thrust * t.ThrustAcceleration
		if a.Boost {
			strength *= t.BoostMultiplier
		}
		body.ApplyForce(rot.Rotate(forwardAxis).Mul(strength), true)

	case math.Abs(thrust) <= parameter.FlightInputDeadzone && speed > parameter.FlightResidualSpeed:
		ratio := speedRatio(speed, t.MaxLinearSpeed)
		strength := t.ThrustAcceleration * ratio * parameter.FlightForceBrakeFactor
		body.ApplyForce(physics.Direction(vel).Mul(-strength), true)
	}
}

func speedRatio(speed, max float64) float64 {
	if max <= 0 {
		return 1
	}
	return math.Min(speed/max, 1)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
