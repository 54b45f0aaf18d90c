package input

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vi-flight/event"
)

// Topics published by the Manager, suffixed with ".<namespace>" when one is configured
const (
	TopicKeyDown = "keydown"
	TopicKeyUp   = "keyup"
)

// Processed is the argument handed to mappers: the latest value emitted by each processor
type Processed map[string]any

// registry keeps insertion order; overwriting a name keeps its original slot
type registry[T interface{ Name() string }] struct {
	order []string
	items map[string]T
}

func newRegistry[T interface{ Name() string }]() *registry[T] {
	return &registry[T]{items: make(map[string]T)}
}

func (r *registry[T]) put(v T) {
	name := v.Name()
	if _, exists := r.items[name]; !exists {
		r.order = append(r.order, name)
	}
	r.items[name] = v
}

func (r *registry[T]) remove(name string) (T, bool) {
	v, ok := r.items[name]
	if !ok {
		return v, false
	}
	delete(r.items, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return v, true
}

func (r *registry[T]) get(name string) (T, bool) {
	v, ok := r.items[name]
	return v, ok
}

func (r *registry[T]) names() []string {
	return append([]string(nil), r.order...)
}

func (r *registry[T]) values() []T {
	out := make([]T, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.items[n])
	}
	return out
}

// Manager owns the raw key state and the processor/mapper pipeline
//
// Key handlers may be called from the host's input goroutine; Update runs on the tick
// goroutine. Effects of key events become visible to processors on the next Update.
type Manager struct {
	bus       *event.Bus
	store     *Store
	clock     Clock
	log       *slog.Logger
	namespace string
	enabled   atomic.Bool

	mu         sync.Mutex // Guards registries and processed
	processors *registry[Processor]
	mappers    *registry[Mapper]
	processed  Processed
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithNamespace publishes every topic as "<topic>.<ns>"
func WithNamespace(ns string) ManagerOption {
	return func(m *Manager) { m.namespace = ns }
}

// WithClock replaces the wall clock used for key event timestamps
func WithClock(c Clock) ManagerOption {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager creates an enabled manager publishing on bus
func NewManager(bus *event.Bus, opts ...ManagerOption) *Manager {
	m := &Manager{
		bus:        bus,
		store:      NewStore(),
		clock:      systemClock{},
		log:        slog.Default(),
		processors: newRegistry[Processor](),
		mappers:    newRegistry[Mapper](),
		processed:  make(Processed),
	}
	m.enabled.Store(true)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Topic returns the bus name the manager uses for a stage topic
func (m *Manager) Topic(topic string) string {
	if m.namespace == "" {
		return topic
	}
	return topic + "." + m.namespace
}

// Namespace returns the configured namespace, empty for the default
func (m *Manager) Namespace() string { return m.namespace }

// Keys exposes the raw store as a read-only view
func (m *Manager) Keys() KeyReader { return m.store }

// OnKeyDown marks key held and publishes keydown on the released-to-held edge only
func (m *Manager) OnKeyDown(key KeyCode) {
	if !m.enabled.Load() {
		return
	}
	if was := m.store.Set(key, true); was {
		return
	}
	m.publish(TopicKeyDown, KeyEvent{Key: key, Pressed: true, Timestamp: m.clock.Now()})
}

// OnKeyUp marks key released and always publishes keyup
func (m *Manager) OnKeyUp(key KeyCode) {
	if !m.enabled.Load() {
		return
	}
	m.store.Set(key, false)
	m.publish(TopicKeyUp, KeyEvent{Key: key, Pressed: false, Timestamp: m.clock.Now()})
}

// OnFocusLost releases every key without per-key notifications
func (m *Manager) OnFocusLost() {
	if !m.enabled.Load() {
		return
	}
	m.store.ReleaseAll()
}

func (m *Manager) IsPressed(key KeyCode) bool {
	return m.store.IsPressed(key)
}

// PressedKeys lists held keys in key order
func (m *Manager) PressedKeys() []KeyCode {
	return m.store.Pressed()
}

// RawInputs copies the raw key table
func (m *Manager) RawInputs() map[KeyCode]bool {
	return m.store.Snapshot()
}

// RegisterProcessor inserts p under its name
// An existing entry with the same name is replaced in place and is not disposed
func (m *Manager) RegisterProcessor(p Processor) *Manager {
	if p == nil {
		m.log.Warn("input: nil processor")
		return m
	}
	m.mu.Lock()
	m.processors.put(p)
	m.mu.Unlock()
	return m
}

// RegisterMapper inserts mp under its name with the same overwrite rule as processors
func (m *Manager) RegisterMapper(mp Mapper) *Manager {
	if mp == nil {
		m.log.Warn("input: nil mapper")
		return m
	}
	m.mu.Lock()
	m.mappers.put(mp)
	m.mu.Unlock()
	return m
}

// RemoveProcessor disposes and deletes the named processor; unknown names are ignored
func (m *Manager) RemoveProcessor(name string) *Manager {
	m.mu.Lock()
	p, ok := m.processors.remove(name)
	delete(m.processed, name)
	m.mu.Unlock()
	if ok {
		m.dispose(name, p.Dispose)
	}
	return m
}

// RemoveMapper disposes and deletes the named mapper; unknown names are ignored
func (m *Manager) RemoveMapper(name string) *Manager {
	m.mu.Lock()
	mp, ok := m.mappers.remove(name)
	m.mu.Unlock()
	if ok {
		m.dispose(name, mp.Dispose)
	}
	return m
}

func (m *Manager) Processor(name string) (Processor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processors.get(name)
}

func (m *Manager) Mapper(name string) (Mapper, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mappers.get(name)
}

// ProcessorNames lists registered processors in registration order
func (m *Manager) ProcessorNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processors.names()
}

// MapperNames lists registered mappers in registration order
func (m *Manager) MapperNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mappers.names()
}

// SetEnabled gates both key ingestion and Update
func (m *Manager) SetEnabled(enabled bool) *Manager {
	m.enabled.Store(enabled)
	return m
}

func (m *Manager) Enabled() bool {
	return m.enabled.Load()
}

// Update runs one pass: every processor in order, then every mapper in order
// A panicking unit is logged with its name and skipped; the pass continues
func (m *Manager) Update() {
	if !m.enabled.Load() {
		return
	}

	m.mu.Lock()
	processors := m.processors.values()
	mappers := m.mappers.values()
	m.mu.Unlock()

	for _, p := range processors {
		name := p.Name()
		v, ok := m.run("processor", name, func() (any, bool) { return p.Process(m.store) })
		if !ok {
			continue
		}
		m.mu.Lock()
		m.processed[name] = v
		m.mu.Unlock()
		m.publish(name, v)
	}

	processed := m.Processed()
	for _, mp := range mappers {
		name := mp.Name()
		v, ok := m.run("mapper", name, func() (any, bool) { return mp.Map(processed) })
		if !ok {
			continue
		}
		m.publish(name, v)
	}
}

// Processed copies the latest value emitted by each processor
func (m *Manager) Processed() Processed {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(Processed, len(m.processed))
	for k, v := range m.processed {
		out[k] = v
	}
	return out
}

// Dispose tears down every unit and clears the raw table
func (m *Manager) Dispose() {
	m.mu.Lock()
	processors := m.processors.values()
	mappers := m.mappers.values()
	m.processors = newRegistry[Processor]()
	m.mappers = newRegistry[Mapper]()
	m.processed = make(Processed)
	m.mu.Unlock()

	for _, p := range processors {
		m.dispose(p.Name(), p.Dispose)
	}
	for _, mp := range mappers {
		m.dispose(mp.Name(), mp.Dispose)
	}
	m.store.Clear()

	// A private namespace belongs to this manager; the shared default namespace is left alone
	if m.bus != nil && m.namespace != "" {
		m.bus.ClearNamespace(m.namespace)
	}
}

func (m *Manager) run(kind, name string, fn func() (any, bool)) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("input: unit failed", "kind", kind, "name", name, "panic", r)
			v, ok = nil, false
		}
	}()
	v, ok = fn()
	if ok && v == nil {
		ok = false
	}
	return v, ok
}

func (m *Manager) dispose(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("input: dispose failed", "name", name, "panic", r)
		}
	}()
	fn()
}

func (m *Manager) publish(topic string, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(m.Topic(topic), payload)
}
