package event

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handler receives published arguments
// A nil return is treated as "no result" when Publish selects its return value
type Handler func(args ...any) any

// ListenerID identifies one registration; funcs are not comparable so removal goes through ids
type ListenerID = uuid.UUID

type listener struct {
	id    ListenerID
	seq   uint64 // Global registration order, used to merge namespaces on broadcast
	fn    Handler
	once  bool
	fired atomic.Bool
	name  Name
}

// Bus is a namespaced publish/subscribe hub
//
// Dispatch is synchronous on the publishing goroutine, in registration order.
// The internal lock is released while listeners run, so listeners may publish,
// subscribe or unsubscribe re-entrantly.
type Bus struct {
	mu         sync.Mutex
	namespaces map[string]map[string][]*listener
	seq        uint64
	log        *slog.Logger
}

// Option configures a Bus
type Option func(*Bus)

// WithLogger routes bus warnings to the given logger
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBus creates an empty bus with the default namespace present
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		namespaces: map[string]map[string][]*listener{
			DefaultNamespace: {},
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn under every name in names and returns the bus for chaining
func (b *Bus) Subscribe(names string, fn Handler) *Bus {
	b.Listen(names, fn, false)
	return b
}

// SubscribeOnce registers fn to run on the next matching publish only
func (b *Bus) SubscribeOnce(names string, fn Handler) *Bus {
	b.Listen(names, fn, true)
	return b
}

// Listen registers fn and returns the identity used by UnsubscribeID
// Returns false when names or fn are invalid; the bus is unchanged in that case
func (b *Bus) Listen(names string, fn Handler, once bool) (ListenerID, bool) {
	if fn == nil {
		b.log.Warn("event: invalid handler", "names", names)
		return uuid.Nil, false
	}
	parsed := ParseNames(names)
	if len(parsed) == 0 {
		b.log.Warn("event: invalid names", "names", names)
		return uuid.Nil, false
	}

	id := uuid.New()
	registered := 0

	b.mu.Lock()
	for _, n := range parsed {
		if n.Topic == "" && n.IsDefault() {
			continue
		}
		topics, ok := b.namespaces[n.Namespace]
		if !ok {
			topics = make(map[string][]*listener)
			b.namespaces[n.Namespace] = topics
		}
		b.seq++
		topics[n.Topic] = append(topics[n.Topic], &listener{
			id:   id,
			seq:  b.seq,
			fn:   fn,
			once: once,
			name: n,
		})
		registered++
	}
	b.mu.Unlock()

	if registered == 0 {
		b.log.Warn("event: invalid names", "names", names)
		return uuid.Nil, false
	}
	return id, true
}

// Unsubscribe removes every listener of the resolved names
// A bare topic is removed from all namespaces; ".ns" deletes the whole namespace
func (b *Bus) Unsubscribe(names string) *Bus {
	b.remove(names, uuid.Nil, false)
	return b
}

// UnsubscribeID removes only the registration with the given id under the resolved names
func (b *Bus) UnsubscribeID(names string, id ListenerID) *Bus {
	b.remove(names, id, true)
	return b
}

func (b *Bus) remove(names string, id ListenerID, byID bool) {
	parsed := ParseNames(names)
	if len(parsed) == 0 {
		b.log.Warn("event: invalid names", "names", names)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, n := range parsed {
		if n.IsNamespaceOnly() {
			delete(b.namespaces, n.Namespace)
			continue
		}

		targets := []string{n.Namespace}
		if n.IsDefault() {
			targets = b.namespaceKeysLocked()
		}

		for _, ns := range targets {
			topics := b.namespaces[ns]
			ls, ok := topics[n.Topic]
			if !ok {
				continue
			}
			if byID {
				for i, l := range ls {
					if l.id == id {
						ls = append(ls[:i:i], ls[i+1:]...)
						break
					}
				}
				if len(ls) == 0 {
					delete(topics, n.Topic)
				} else {
					topics[n.Topic] = ls
				}
			} else {
				delete(topics, n.Topic)
			}
			b.collectLocked(ns)
		}
	}
}

// Publish invokes the listeners of exactly one resolved name with args
//
// A name in the default namespace reaches that topic in every namespace;
// a namespaced name reaches only its own namespace. Returns the first non-nil
// listener result. Once-listeners are removed after the dispatch completes.
func (b *Bus) Publish(name string, args ...any) any {
	parsed := ParseNames(name)
	if len(parsed) != 1 {
		b.log.Warn("event: publish requires exactly one name", "name", name)
		return nil
	}
	n := parsed[0]

	targets := b.collect(n)
	if len(targets) == 0 {
		return nil
	}

	var result any
	var fired []*listener
	for _, l := range targets {
		if l.once {
			// Claim before invoking so re-entrant or concurrent publishes skip it
			if !l.fired.CompareAndSwap(false, true) {
				continue
			}
			fired = append(fired, l)
		}
		r := b.invoke(n, l, args)
		if result == nil && r != nil {
			result = r
		}
	}

	if len(fired) > 0 {
		b.mu.Lock()
		for i := len(fired) - 1; i >= 0; i-- {
			b.detachLocked(fired[i])
		}
		b.mu.Unlock()
	}

	return result
}

// collect snapshots the listeners for n, ordered by registration
func (b *Bus) collect(n Name) []*listener {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !n.IsDefault() {
		ls := b.namespaces[n.Namespace][n.Topic]
		if len(ls) == 0 {
			return nil
		}
		out := make([]*listener, len(ls))
		copy(out, ls)
		return out
	}

	var out []*listener
	for _, topics := range b.namespaces {
		out = append(out, topics[n.Topic]...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (b *Bus) invoke(n Name, l *listener, args []any) (result any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event: listener panicked", "event", n.String(), "panic", r)
			result = nil
		}
	}()
	return l.fn(args...)
}

// detachLocked removes one specific registration, tolerating prior removal
func (b *Bus) detachLocked(l *listener) {
	topics, ok := b.namespaces[l.name.Namespace]
	if !ok {
		return
	}
	ls := topics[l.name.Topic]
	for i := len(ls) - 1; i >= 0; i-- {
		if ls[i] == l {
			ls = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(ls) == 0 {
		delete(topics, l.name.Topic)
	} else {
		topics[l.name.Topic] = ls
	}
	b.collectLocked(l.name.Namespace)
}

// collectLocked drops an empty non-default namespace
func (b *Bus) collectLocked(ns string) {
	if ns == DefaultNamespace {
		return
	}
	if topics, ok := b.namespaces[ns]; ok && len(topics) == 0 {
		delete(b.namespaces, ns)
	}
}

func (b *Bus) namespaceKeysLocked() []string {
	keys := make([]string, 0, len(b.namespaces))
	for ns := range b.namespaces {
		keys = append(keys, ns)
	}
	return keys
}

// Clear removes all listeners in all namespaces
func (b *Bus) Clear() *Bus {
	b.mu.Lock()
	b.namespaces = map[string]map[string][]*listener{
		DefaultNamespace: {},
	}
	b.mu.Unlock()
	return b
}

// ClearNamespace removes one non-default namespace and all its listeners
func (b *Bus) ClearNamespace(ns string) *Bus {
	if ns == "" || ns == DefaultNamespace {
		return b
	}
	b.mu.Lock()
	delete(b.namespaces, ns)
	b.mu.Unlock()
	return b
}

// CountListeners returns the number of registrations reachable by name
// A bare topic counts across every namespace, a dotted name counts one namespace
func (b *Bus) CountListeners(name string) int {
	parsed := ParseNames(name)

	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, n := range parsed {
		if n.IsDefault() {
			for _, topics := range b.namespaces {
				count += len(topics[n.Topic])
			}
			continue
		}
		count += len(b.namespaces[n.Namespace][n.Topic])
	}
	return count
}

// Namespaces lists the namespaces currently holding a table, sorted
func (b *Bus) Namespaces() []string {
	b.mu.Lock()
	keys := b.namespaceKeysLocked()
	b.mu.Unlock()
	sort.Strings(keys)
	return keys
}
