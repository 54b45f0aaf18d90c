package input

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// FlightMapperName is the topic the flight mapper publishes under
const FlightMapperName = "flight"

// FlightActions is the per-tick intent bundle consumed by the flight controller
type FlightActions struct {
	Movement   mgl64.Vec2 // x roll (right positive), y thrust (forward positive)
	Boost      bool
	Accelerate float64 // -1 slow, +1 speed up
	Pitch      float64 // Reserved, always 0
}

// FlightBindings assigns physical keys to flight intents
type FlightBindings struct {
	Forward  KeyCode
	Backward KeyCode
	Left     KeyCode
	Right    KeyCode
	Boost    []KeyCode
	SlowDown KeyCode
	SpeedUp  KeyCode
}

// DefaultFlightBindings is W/S thrust, A/D roll, either Shift boost, Q/E speed
func DefaultFlightBindings() FlightBindings {
	return FlightBindings{
		Forward:  KeyW,
		Backward: KeyS,
		Left:     KeyA,
		Right:    KeyD,
		Boost:    []KeyCode{KeyShiftLeft, KeyShiftRight},
		SlowDown: KeyQ,
		SpeedUp:  KeyE,
	}
}

// ParseFlightBindings builds bindings from code names, falling back to defaults for empty fields
func ParseFlightBindings(forward, backward, left, right string, boost []string, slow, fast string) (FlightBindings, error) {
	b := DefaultFlightBindings()

	single := []struct {
		name string
		dst  *KeyCode
	}{
		{forward, &b.Forward},
		{backward, &b.Backward},
		{left, &b.Left},
		{right, &b.Right},
		{slow, &b.SlowDown},
		{fast, &b.SpeedUp},
	}
	for _, s := range single {
		if s.name == "" {
			continue
		}
		k, ok := ParseKeyCode(s.name)
		if !ok {
			return b, fmt.Errorf("input: unknown key %q", s.name)
		}
		*s.dst = k
	}

	if len(boost) > 0 {
		b.Boost = b.Boost[:0:0]
		for _, name := range boost {
			k, ok := ParseKeyCode(name)
			if !ok {
				return b, fmt.Errorf("input: unknown key %q", name)
			}
			b.Boost = append(b.Boost, k)
		}
	}
	return b, nil
}

// FlightActionMapper reads keys through a KeyReader rather than the processed value
type FlightActionMapper struct {
	keys     KeyReader
	bindings FlightBindings
	last     FlightActions
}

// NewFlightActionMapper creates a mapper over keys with the default bindings
func NewFlightActionMapper(keys KeyReader) *FlightActionMapper {
	return NewFlightActionMapperWithBindings(keys, DefaultFlightBindings())
}

func NewFlightActionMapperWithBindings(keys KeyReader, b FlightBindings) *FlightActionMapper {
	return &FlightActionMapper{keys: keys, bindings: b}
}

func (m *FlightActionMapper) Name() string { return FlightMapperName }

// Map emits a fresh bundle only when any field differs from the cached one
func (m *FlightActionMapper) Map(any) (any, bool) {
	a := m.Current()
	if a == m.last {
		return nil, false
	}
	m.last = a
	return a, true
}

// Current derives the bundle from the live key state regardless of change
func (m *FlightActionMapper) Current() FlightActions {
	b := m.bindings
	boost := false
	for _, k := range b.Boost {
		if m.keys.IsPressed(k) {
			boost = true
			break
		}
	}
	return FlightActions{
		Movement: mgl64.Vec2{
			Axis(m.keys, b.Left, b.Right),
			Axis(m.keys, b.Backward, b.Forward),
		},
		Boost:      boost,
		Accelerate: Axis(m.keys, b.SlowDown, b.SpeedUp),
	}
}

// Bindings returns a copy of the active bindings
func (m *FlightActionMapper) Bindings() FlightBindings {
	b := m.bindings
	b.Boost = append([]KeyCode(nil), b.Boost...)
	return b
}

func (m *FlightActionMapper) Dispose() {
	m.last = FlightActions{}
}
