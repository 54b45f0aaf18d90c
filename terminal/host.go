package terminal

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
)

// KeySink receives the host's key transitions; *input.Manager satisfies it
type KeySink interface {
	OnKeyDown(input.KeyCode)
	OnKeyUp(input.KeyCode)
	OnFocusLost()
}

// EventHook sees every event before the host; returning false stops Run
type EventHook func(tcell.Event) bool

var modifierCodes = []input.KeyCode{input.KeyShiftLeft, input.KeyControlLeft, input.KeyAltLeft}

// KeyboardHost turns tcell key reports into down/up transitions
type KeyboardHost struct {
	sink     KeySink
	clock    input.Clock
	timeout  time.Duration
	interval time.Duration
	hook     EventHook
	log      *slog.Logger

	mu   sync.Mutex
	held map[input.KeyCode]time.Time // Last report per key
}

type HostOption func(*KeyboardHost)

// WithReleaseTimeout sets how long a key stays down without a repeat report
func WithReleaseTimeout(d time.Duration) HostOption {
	return func(h *KeyboardHost) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithSweepInterval sets how often Run checks for expired keys
func WithSweepInterval(d time.Duration) HostOption {
	return func(h *KeyboardHost) {
		if d > 0 {
			h.interval = d
		}
	}
}

func WithHostClock(c input.Clock) HostOption {
	return func(h *KeyboardHost) {
		if c != nil {
			h.clock = c
		}
	}
}

func WithHostLogger(l *slog.Logger) HostOption {
	return func(h *KeyboardHost) {
		if l != nil {
			h.log = l
		}
	}
}

// WithEventHook installs a hook run ahead of key handling
func WithEventHook(fn EventHook) HostOption {
	return func(h *KeyboardHost) { h.hook = fn }
}

func NewKeyboardHost(sink KeySink, opts ...HostOption) *KeyboardHost {
	h := &KeyboardHost{
		sink:     sink,
		clock:    wallClock{},
		timeout:  parameter.KeyReleaseTimeout,
		interval: parameter.KeyReleaseCheckInterval,
		log:      slog.Default(),
		held:     make(map[input.KeyCode]time.Time),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleEvent applies one tcell event and reports whether it was consumed
func (h *KeyboardHost) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s, ok := MapKey(ev)
		if !ok {
			return false
		}
		h.press(s)
		return true
	case *tcell.EventFocus:
		if ev.Focused {
			return false
		}
		h.mu.Lock()
		clear(h.held)
		h.mu.Unlock()
		h.log.Debug("focus lost, releasing keys")
		h.sink.OnFocusLost()
		return true
	}
	return false
}

func (h *KeyboardHost) press(s Stroke) {
	now := h.clock.Now()
	mods := s.modifierKeys()

	// Each report carries the full modifier state
	var released []input.KeyCode
	h.mu.Lock()
	for _, m := range modifierCodes {
		if _, down := h.held[m]; down && !slices.Contains(mods, m) {
			delete(h.held, m)
			released = append(released, m)
		}
	}
	for _, m := range mods {
		h.held[m] = now
	}
	h.held[s.Key] = now
	h.mu.Unlock()

	for _, k := range released {
		h.sink.OnKeyUp(k)
	}
	for _, m := range mods {
		h.sink.OnKeyDown(m)
	}
	h.sink.OnKeyDown(s.Key)
}

// Sweep releases every key not reported within the timeout, in key order
func (h *KeyboardHost) Sweep(now time.Time) []input.KeyCode {
	var expired []input.KeyCode
	h.mu.Lock()
	for k, last := range h.held {
		if now.Sub(last) >= h.timeout {
			expired = append(expired, k)
			delete(h.held, k)
		}
	}
	h.mu.Unlock()

	slices.Sort(expired)
	for _, k := range expired {
		h.sink.OnKeyUp(k)
	}
	return expired
}

// Held returns the keys the host currently reports as down
func (h *KeyboardHost) Held() []input.KeyCode {
	h.mu.Lock()
	keys := make([]input.KeyCode, 0, len(h.held))
	for k := range h.held {
		keys = append(keys, k)
	}
	h.mu.Unlock()
	slices.Sort(keys)
	return keys
}

// ReleaseAll sends key-up for every held key
func (h *KeyboardHost) ReleaseAll() {
	h.mu.Lock()
	keys := make([]input.KeyCode, 0, len(h.held))
	for k := range h.held {
		keys = append(keys, k)
	}
	clear(h.held)
	h.mu.Unlock()

	slices.Sort(keys)
	for _, k := range keys {
		h.sink.OnKeyUp(k)
	}
}

// Run consumes events until ctx ends, the channel closes, or the hook declines.
// Held keys are released on return.
func (h *KeyboardHost) Run(ctx context.Context, events <-chan tcell.Event) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer h.ReleaseAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if h.hook != nil && !h.hook(ev) {
				return nil
			}
			h.HandleEvent(ev)
		case <-ticker.C:
			h.Sweep(h.clock.Now())
		}
	}
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
