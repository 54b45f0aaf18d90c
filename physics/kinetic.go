package physics

import "github.com/go-gl/mathgl/mgl64"

// Integrate performs semi-implicit Euler integration: v = v + a*dt; p = p + v*dt
func Integrate(pos, vel, accel mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	vel = vel.Add(accel.Mul(dt))
	pos = pos.Add(vel.Mul(dt))
	return pos, vel
}

// IntegrateRotation advances orientation q by angular velocity w (rad/s, world frame)
// q' = q + 0.5 * (0, w) * q * dt, renormalized
func IntegrateRotation(q mgl64.Quat, w mgl64.Vec3, dt float64) mgl64.Quat {
	if w.LenSqr() == 0 {
		return q
	}
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}

// Damp applies velocity damping in the 1/(1+dt*d) form, stable for any dt
func Damp(v mgl64.Vec3, damping, dt float64) mgl64.Vec3 {
	if damping <= 0 {
		return v
	}
	return v.Mul(1 / (1 + dt*damping))
}
