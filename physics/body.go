package physics

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-flight/parameter"
)

// RigidBody is the handle a controller actuates
// Implementations are owned by the physics world; forces and torques accumulate until the next step
type RigidBody interface {
	Translation() mgl64.Vec3
	Rotation() mgl64.Quat
	LinearVelocity() mgl64.Vec3
	AngularVelocity() mgl64.Vec3
	ApplyForce(force mgl64.Vec3, wake bool)
	ApplyTorque(torque mgl64.Vec3, wake bool)
}

// BodyConfig describes a dynamic body at creation
type BodyConfig struct {
	Mass           float64
	Inertia        float64 // Scalar moment of inertia, same on every axis
	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64
	MaxSpeed       float64 // Hard linear cap applied after integration, 0 disables
	Translation    mgl64.Vec3
	Rotation       mgl64.Quat

	// Spawn velocities
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// ShipBodyConfig returns the spawn configuration of the player ship
func ShipBodyConfig() BodyConfig {
	return BodyConfig{
		Mass:           parameter.ShipMass,
		Inertia:        parameter.ShipInertia,
		LinearDamping:  parameter.ShipLinearDamping,
		AngularDamping: parameter.ShipAngularDamping,
		GravityScale:   parameter.ShipGravityScale,
		Translation:    mgl64.Vec3{0, parameter.ShipStartHeight, 0},
		Rotation:       mgl64.QuatRotate(mgl64.DegToRad(parameter.ShipInitialYaw), mgl64.Vec3{0, 1, 0}),
	}
}

// Body is a reference dynamic rigid body
type Body struct {
	mu sync.RWMutex

	translation mgl64.Vec3
	rotation    mgl64.Quat
	linVel      mgl64.Vec3
	angVel      mgl64.Vec3

	force  mgl64.Vec3
	torque mgl64.Vec3

	invMass        float64
	invInertia     float64
	mass           float64
	linearDamping  float64
	angularDamping float64
	gravityScale   float64
	maxSpeed       float64
	sleeping       bool
	idleSteps      int // Consecutive unforced steps below the sleep speed
}

// NewBody creates an awake body; non-positive mass or inertia is treated as 1
func NewBody(cfg BodyConfig) *Body {
	if cfg.Mass <= 0 {
		cfg.Mass = 1
	}
	if cfg.Inertia <= 0 {
		cfg.Inertia = 1
	}
	rot := cfg.Rotation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}
	return &Body{
		translation:    cfg.Translation,
		rotation:       rot.Normalize(),
		linVel:         cfg.LinearVelocity,
		angVel:         cfg.AngularVelocity,
		mass:           cfg.Mass,
		invMass:        1 / cfg.Mass,
		invInertia:     1 / cfg.Inertia,
		linearDamping:  cfg.LinearDamping,
		angularDamping: cfg.AngularDamping,
		gravityScale:   cfg.GravityScale,
		maxSpeed:       cfg.MaxSpeed,
	}
}

func (b *Body) Translation() mgl64.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.translation
}

func (b *Body) Rotation() mgl64.Quat {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rotation
}

func (b *Body) LinearVelocity() mgl64.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.linVel
}

func (b *Body) AngularVelocity() mgl64.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.angVel
}

func (b *Body) Mass() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mass
}

// ApplyForce accumulates a world-space force for the next step
// A sleeping body ignores the force unless wake is set
func (b *Body) ApplyForce(force mgl64.Vec3, wake bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sleeping && !wake {
		return
	}
	b.wakeLocked()
	b.force = b.force.Add(force)
}

// ApplyTorque accumulates a world-space torque for the next step
func (b *Body) ApplyTorque(torque mgl64.Vec3, wake bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sleeping && !wake {
		return
	}
	b.wakeLocked()
	b.torque = b.torque.Add(torque)
}

// Sleep freezes the body until a waking force or torque arrives
func (b *Body) Sleep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sleepLocked()
}

func (b *Body) sleepLocked() {
	b.sleeping = true
	b.idleSteps = 0
	b.linVel = mgl64.Vec3{}
	b.angVel = mgl64.Vec3{}
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

func (b *Body) wakeLocked() {
	b.sleeping = false
	b.idleSteps = 0
}

func (b *Body) Sleeping() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sleeping
}

// Step integrates accumulated force and torque over dt seconds, then clears the accumulators
// A body left unforced below BodySleepSpeed for BodySleepSteps steps falls asleep
func (b *Body) Step(dt float64, gravity mgl64.Vec3) {
	if dt <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sleeping {
		return
	}

	forced := b.force != (mgl64.Vec3{}) || b.torque != (mgl64.Vec3{})

	accel := b.force.Mul(b.invMass).Add(gravity.Mul(b.gravityScale))
	b.translation, b.linVel = Integrate(b.translation, b.linVel, accel, dt)
	b.linVel = Damp(b.linVel, b.linearDamping, dt)
	b.linVel, _ = CapSpeed(b.linVel, b.maxSpeed)

	b.angVel = b.angVel.Add(b.torque.Mul(b.invInertia * dt))
	b.angVel = Damp(b.angVel, b.angularDamping, dt)
	b.rotation = IntegrateRotation(b.rotation, b.angVel, dt)

	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}

	if forced || b.linVel.Len() >= parameter.BodySleepSpeed || b.angVel.Len() >= parameter.BodySleepSpeed {
		b.idleSteps = 0
		return
	}
	b.idleSteps++
	if b.idleSteps >= parameter.BodySleepSteps {
		b.sleepLocked()
	}
}

// Snapshot is a consistent copy of the kinematic state
type Snapshot struct {
	Translation     mgl64.Vec3
	Rotation        mgl64.Quat
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Sleeping        bool
}

// Snapshot reads all kinematic state under one lock
func (b *Body) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Translation:     b.translation,
		Rotation:        b.rotation,
		LinearVelocity:  b.linVel,
		AngularVelocity: b.angVel,
		Sleeping:        b.sleeping,
	}
}
