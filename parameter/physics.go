package parameter

// Ship rigid body defaults
const (
	ShipMass           = 5.0
	ShipLinearDamping  = 0.8
	ShipAngularDamping = 0.9
	ShipGravityScale   = 0.0

	// ShipStartHeight is the spawn altitude on the Y axis
	ShipStartHeight = 2.0

	// ShipInitialYaw rotates the spawn orientation about +Y, in degrees
	ShipInitialYaw = 90.0

	// ShipInertia is the scalar moment of inertia used on every axis
	ShipInertia = 1.0
)

// Body sleeping
const (
	// BodySleepSpeed is the linear and angular speed below which an unforced body counts as idle
	BodySleepSpeed = 0.001

	// BodySleepSteps idle steps put a body to sleep
	BodySleepSteps = 60
)

// World defaults
const (
	WorldGravityY = -9.81
)
