package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
	AudioChannels   = 2
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond
)

// Thruster cue
const (
	// ThrusterBaseFrequency is the idle-thrust hum in Hz
	ThrusterBaseFrequency = 55.0

	// ThrusterBoostFrequency replaces the base frequency while boost is held
	ThrusterBoostFrequency = 82.5

	// ThrusterVolume is the linear amplitude of the hum
	ThrusterVolume = 0.15

	// ThrusterRamp is the per-sample gain slew, avoids clicks on start/stop
	ThrusterRamp = 1.0 / 2205
)
