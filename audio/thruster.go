package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-flight/engine"
	"github.com/lixenwraith/vi-flight/event"
	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// ThrusterCue voices the flight mapper's pushed actions as an engine drone.
// It only reacts to action changes; the speaker is touched only after Start.
type ThrusterCue struct {
	bus    *event.Bus
	topics []string
	ids    []event.ListenerID
	muted  func() bool
	log    *slog.Logger

	hum   *Hum
	ctrl  *beep.Ctrl
	out   beep.Streamer
	mixer *beep.Mixer

	mu      sync.Mutex
	started bool
	last    input.FlightActions
}

type CueOption func(*cueOptions)

type cueOptions struct {
	volume float64
}

// WithVolume sets the linear output volume, 0 silences
func WithVolume(v float64) CueOption {
	return func(o *cueOptions) { o.volume = v }
}

// NewThrusterCue subscribes to the flight mapper topic and the pause topic
func NewThrusterCue(ctx *engine.Context, opts ...CueOption) *ThrusterCue {
	o := cueOptions{volume: parameter.ThrusterVolume}
	for _, opt := range opts {
		opt(&o)
	}

	c := &ThrusterCue{
		bus:   ctx.Bus,
		muted: ctx.IsMuted.Load,
		log:   ctx.Log.With("component", "audio"),
		hum:   NewHum(sampleRate, parameter.ThrusterBaseFrequency, parameter.ThrusterRamp),
		mixer: &beep.Mixer{},
	}
	c.ctrl = &beep.Ctrl{Streamer: c.hum}
	vol := newVolume(c.ctrl, o.volume)
	c.out = beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := vol.Stream(samples)
		if c.muted() {
			for i := range samples[:n] {
				samples[i] = [2]float64{}
			}
		}
		return n, ok
	})

	c.listen(ctx.Input.Topic(input.FlightMapperName), func(args ...any) any {
		if len(args) > 0 {
			if a, ok := args[0].(input.FlightActions); ok {
				c.OnActions(a)
			}
		}
		return nil
	})
	c.listen(engine.TopicPause, func(args ...any) any {
		if len(args) > 0 {
			if paused, ok := args[0].(bool); ok {
				c.SetPaused(paused)
			}
		}
		return nil
	})
	return c
}

func (c *ThrusterCue) listen(topic string, fn event.Handler) {
	id, _ := c.bus.Listen(topic, fn, false)
	c.topics = append(c.topics, topic)
	c.ids = append(c.ids, id)
}

// OnActions retargets the drone: throttle drives gain, boost raises pitch, roll pans
func (c *ThrusterCue) OnActions(a input.FlightActions) {
	freq := parameter.ThrusterBaseFrequency
	if a.Boost {
		freq = parameter.ThrusterBoostFrequency
	}
	c.hum.Set(freq, math.Abs(a.Movement.Y()), 0.5*a.Movement.X())

	c.mu.Lock()
	c.last = a
	c.mu.Unlock()
}

// Last returns the most recent actions received
func (c *ThrusterCue) Last() input.FlightActions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// SetPaused freezes the drone without losing its state
func (c *ThrusterCue) SetPaused(paused bool) {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()

	if started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	c.ctrl.Paused = paused
}

// Paused reports the pause state
func (c *ThrusterCue) Paused() bool {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()

	if started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return c.ctrl.Paused
}

// Streamer exposes the final output chain
func (c *ThrusterCue) Streamer() beep.Streamer { return c.out }

// Hum exposes the drone generator
func (c *ThrusterCue) Hum() *Hum { return c.hum }

// Start opens the speaker and begins playback
func (c *ThrusterCue) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	c.mixer.Add(c.out)
	speaker.Play(c.mixer)
	c.started = true
	c.log.Debug("thruster cue started", "sample_rate", int(sampleRate))
	return nil
}

// Close detaches from the bus and releases the speaker if it was opened
func (c *ThrusterCue) Close() {
	for i, topic := range c.topics {
		c.bus.UnsubscribeID(topic, c.ids[i])
	}
	c.topics, c.ids = nil, nil

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.started = false
}

// newVolume maps a linear volume onto a base-2 volume effect; 0 is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
