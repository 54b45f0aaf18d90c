package flight

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/vi-flight/parameter"
)

// Tuning holds the live-adjustable controller coefficients
type Tuning struct {
	ThrustAcceleration float64 `yaml:"thrust_acceleration"`
	RollAcceleration   float64 `yaml:"roll_acceleration"`

	// AirResistance and RotationalDrag are exposed for consumers, actuation does not read them
	AirResistance  float64 `yaml:"air_resistance"`
	RotationalDrag float64 `yaml:"rotational_drag"`

	RollInertia  float64 `yaml:"roll_inertia"`
	PitchInertia float64 `yaml:"pitch_inertia"` // Reserved for pitch control

	// MaxLinearSpeed in m/s, MaxAngularSpeed in deg/s
	MaxLinearSpeed  float64 `yaml:"max_linear_speed"`
	MaxAngularSpeed float64 `yaml:"max_angular_speed"`

	BoostMultiplier float64 `yaml:"boost_multiplier"`
}

// DefaultTuning returns the stock coefficients
func DefaultTuning() Tuning {
	return Tuning{
		ThrustAcceleration: parameter.FlightThrustAcceleration,
		RollAcceleration:   parameter.FlightRollAcceleration,
		AirResistance:      parameter.FlightAirResistance,
		RotationalDrag:     parameter.FlightRotationalDrag,
		RollInertia:        parameter.FlightRollInertia,
		PitchInertia:       parameter.FlightPitchInertia,
		MaxLinearSpeed:     parameter.FlightMaxLinearSpeed,
		MaxAngularSpeed:    parameter.FlightMaxAngularSpeed,
		BoostMultiplier:    parameter.FlightBoostMultiplier,
	}
}

// Validate rejects coefficients that would make actuation meaningless
func (t Tuning) Validate() error {
	if t.MaxLinearSpeed < 0 {
		return fmt.Errorf("flight: max linear speed must be >= 0, got %v", t.MaxLinearSpeed)
	}
	if t.MaxAngularSpeed < 0 {
		return fmt.Errorf("flight: max angular speed must be >= 0, got %v", t.MaxAngularSpeed)
	}
	if t.BoostMultiplier < 0 {
		return fmt.Errorf("flight: boost multiplier must be >= 0, got %v", t.BoostMultiplier)
	}
	return nil
}

// param binds a public name to one Tuning field
type param struct {
	get func(*Tuning) float64
	set func(*Tuning, float64)
}

var params = map[string]param{
	"thrustAcceleration": {func(t *Tuning) float64 { return t.ThrustAcceleration }, func(t *Tuning, v float64) { t.ThrustAcceleration = v }},
	"rollAcceleration":   {func(t *Tuning) float64 { return t.RollAcceleration }, func(t *Tuning, v float64) { t.RollAcceleration = v }},
	"airResistance":      {func(t *Tuning) float64 { return t.AirResistance }, func(t *Tuning, v float64) { t.AirResistance = v }},
	"rotationalDrag":     {func(t *Tuning) float64 { return t.RotationalDrag }, func(t *Tuning, v float64) { t.RotationalDrag = v }},
	"rollInertia":        {func(t *Tuning) float64 { return t.RollInertia }, func(t *Tuning, v float64) { t.RollInertia = v }},
	"pitchInertia":       {func(t *Tuning) float64 { return t.PitchInertia }, func(t *Tuning, v float64) { t.PitchInertia = v }},
	"maxLinearSpeed":     {func(t *Tuning) float64 { return t.MaxLinearSpeed }, func(t *Tuning, v float64) { t.MaxLinearSpeed = v }},
	"maxAngularSpeed":    {func(t *Tuning) float64 { return t.MaxAngularSpeed }, func(t *Tuning, v float64) { t.MaxAngularSpeed = v }},
	"boostMultiplier":    {func(t *Tuning) float64 { return t.BoostMultiplier }, func(t *Tuning, v float64) { t.BoostMultiplier = v }},
}

// ParamNames lists the adjustable parameter names, sorted
func ParamNames() []string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
