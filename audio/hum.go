package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
)

// glide is the per-sample fraction of the remaining frequency gap closed
const glide = 0.002

// Hum is an endless sine/saw drone whose pitch, gain and pan slew toward targets
type Hum struct {
	mu sync.Mutex
	sr beep.SampleRate

	phase      float64
	freq       float64
	targetFreq float64
	gain       float64
	targetGain float64
	pan        float64 // -1 left .. 1 right
	ramp       float64
}

func NewHum(sr beep.SampleRate, freq, ramp float64) *Hum {
	if ramp <= 0 {
		ramp = 1
	}
	return &Hum{sr: sr, freq: freq, targetFreq: freq, ramp: ramp}
}

// Set retargets the drone; gain is clamped to [0,1] and pan to [-1,1]
func (h *Hum) Set(freq, gain, pan float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if freq > 0 {
		h.targetFreq = freq
	}
	h.targetGain = math.Max(0, math.Min(1, gain))
	h.pan = math.Max(-1, math.Min(1, pan))
}

// Gain returns the current (slewed) gain
func (h *Hum) Gain() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gain
}

// Target returns the frequency and gain the drone is moving toward
func (h *Hum) Target() (freq, gain float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.targetFreq, h.targetGain
}

func (h *Hum) Stream(samples [][2]float64) (n int, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	left := 1 - math.Max(h.pan, 0)
	right := 1 + math.Min(h.pan, 0)
	for i := range samples {
		switch {
		case h.gain < h.targetGain:
			h.gain = math.Min(h.targetGain, h.gain+h.ramp)
		case h.gain > h.targetGain:
			h.gain = math.Max(h.targetGain, h.gain-h.ramp)
		}
		h.freq += (h.targetFreq - h.freq) * glide

		v := 0.7*math.Sin(2*math.Pi*h.phase) + 0.3*(2*h.phase-1)
		h.phase += h.freq / float64(h.sr)
		h.phase -= math.Floor(h.phase)

		s := v * h.gain
		samples[i][0] = s * left
		samples[i][1] = s * right
	}
	return len(samples), true
}

func (h *Hum) Err() error { return nil }
