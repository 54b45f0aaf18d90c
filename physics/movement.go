package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CapSpeed limits the velocity vector magnitude to maxSpeed
// Returns the capped vector and true if it was clamped; maxSpeed <= 0 disables the cap
func CapSpeed(vel mgl64.Vec3, maxSpeed float64) (mgl64.Vec3, bool) {
	if maxSpeed <= 0 {
		return vel, false
	}
	magSq := vel.LenSqr()
	if magSq <= maxSpeed*maxSpeed {
		return vel, false
	}
	// Use max/mag ratio to downscale
	return vel.Mul(maxSpeed / vel.Len()), true
}

// Direction returns the unit vector of v, or zero for a zero-length input
func Direction(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Heading returns the yaw angle in degrees of the body's forward axis (+X) projected on the XZ plane
func Heading(q mgl64.Quat) float64 {
	f := q.Rotate(mgl64.Vec3{1, 0, 0})
	return mgl64.RadToDeg(math.Atan2(-f.Z(), f.X()))
}
