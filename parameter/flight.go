package parameter

// Flight controller tuning defaults
const (
	FlightThrustAcceleration = 0.5
	FlightRollAcceleration   = 0.3
	FlightAirResistance      = 0.5
	FlightRotationalDrag     = 0.3
	FlightRollInertia        = 1.2
	FlightPitchInertia       = 1.8

	// FlightMaxLinearSpeed is the forward speed ceiling in m/s
	FlightMaxLinearSpeed = 3.0

	// FlightMaxAngularSpeed is the rotation ceiling in deg/s, converted to rad/s at use
	FlightMaxAngularSpeed = 60.0

	// FlightBoostMultiplier scales thrust while boost is held, 1 leaves boost inert
	FlightBoostMultiplier = 1.0
)

// Drive-or-brake thresholds
const (
	// FlightInputDeadzone below which an axis input counts as released
	FlightInputDeadzone = 0.01

	// FlightResidualSpeed below which no braking is applied
	FlightResidualSpeed = 0.01

	// FlightTorqueBrakeFactor and FlightForceBrakeFactor soften braking relative to drive
	FlightTorqueBrakeFactor = 0.8
	FlightForceBrakeFactor  = 1.2

	// FlightTurnThreshold is the roll magnitude that, with forward thrust, reports turning
	FlightTurnThreshold = 0.1
)
