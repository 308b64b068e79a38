package messenger

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/messenger/core/logger"
)

// Messenger is the contract a Registry fulfils. Depend on it instead of
// *Registry when the consumer needs to be tested against a mock.
type Messenger[T any] interface {
	Register(r Receiver[T], opts ...RegisterOption[T]) error
	IsRegistered(r Receiver[T]) bool
	Unregister(r Receiver[T]) error
	UnregisterAll()
	CheckAlive() int
	Send(msg T)
	RegisteredCount() int
}

var _ Messenger[struct{}] = (*Registry[struct{}])(nil)

// Registry stores the receivers of one message type and dispatches to them.
//
// Every method holds the same mutex for its whole duration, so Send observes
// a consistent list and concurrent Register calls never lose updates. The
// lock is not reentrant: a receiver must not call back into the Registry it
// is being notified by.
type Registry[T any] struct {
	mu      sync.Mutex
	entries []*entry[T]

	typeName string
	logger   *slog.Logger
	metrics  MetricsRecorder

	sent      atomic.Int64
	delivered atomic.Int64
	filtered  atomic.Int64
	stale     atomic.Int64
	swept     atomic.Int64
}

// Stats provides counters for monitoring and debugging.
type Stats struct {
	Registered int   // current entry count, stale entries included
	Sent       int64 // Send calls
	Delivered  int64 // Receive invocations
	Filtered   int64 // deliveries rejected by a filter
	Stale      int64 // entries skipped during Send because the receiver was reclaimed
	Swept      int64 // stale entries removed by CheckAlive
}

// New creates a standalone registry for message type T.
// Most code should use Of[T]() to share the process-wide instance instead.
func New[T any](opts ...Option) *Registry[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	name := typeName[T]()
	return &Registry[T]{
		typeName: name,
		logger:   o.logger.With(logger.Component("messenger"), logger.MessageType(name)),
		metrics:  o.metrics,
	}
}

// Register subscribes r to messages of type T.
//
// Registering a receiver that is already registered is a no-op: no second
// entry is added and the existing filter is kept. The registry holds only a
// weak reference to r, so r remains owned by the caller.
//
// Example:
//
//	reg := messenger.Of[StatusChanged]()
//	if err := reg.Register(view, messenger.WithFilter(func(msg StatusChanged) bool {
//	    return msg.Key == "header"
//	})); err != nil {
//	    return err
//	}
func (m *Registry[T]) Register(r Receiver[T], opts ...RegisterOption[T]) error {
	ref, err := makeRef(r)
	if err != nil {
		return fmt.Errorf("register %s: %w", m.typeName, err)
	}

	e := &entry[T]{
		id:           uuid.New(),
		ref:          ref,
		registeredAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(ref) >= 0 {
		return nil
	}
	m.entries = append(m.entries, e)

	m.logger.Debug("receiver registered",
		logger.EntryID(e.id),
		logger.Receiver(ref.typeName()),
		logger.Count("registered", len(m.entries)))

	return nil
}

// MustRegister is like Register but panics on error. Useful during startup wiring.
func MustRegister[T any](m *Registry[T], r Receiver[T], opts ...RegisterOption[T]) {
	if err := m.Register(r, opts...); err != nil {
		panic(err)
	}
}

// IsRegistered reports whether r currently has an entry.
// Stale entries never match, and this call never removes them.
// An invalid receiver is never registered, so it reports false.
func (m *Registry[T]) IsRegistered(r Receiver[T]) bool {
	ref, err := makeRef(r)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.indexOf(ref) >= 0
}

// Unregister removes every entry for r. Unregistering a receiver that is not
// registered is a no-op. Stale entries of other receivers are left in place;
// use CheckAlive to remove them.
func (m *Registry[T]) Unregister(r Receiver[T]) error {
	ref, err := makeRef(r)
	if err != nil {
		return fmt.Errorf("unregister %s: %w", m.typeName, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.entries)
	m.entries = slices.DeleteFunc(m.entries, func(e *entry[T]) bool {
		return e.ref.same(ref)
	})

	if removed := before - len(m.entries); removed > 0 {
		m.logger.Debug("receiver unregistered",
			logger.Receiver(ref.typeName()),
			logger.Count("registered", len(m.entries)))
	}

	return nil
}

// UnregisterAll removes every entry.
func (m *Registry[T]) UnregisterAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := len(m.entries)
	m.entries = nil

	m.logger.Debug("all receivers unregistered", logger.Count("removed", removed))
}

// CheckAlive removes entries whose receiver has been reclaimed and returns how
// many were removed. Live entries keep their filters and relative order.
func (m *Registry[T]) CheckAlive() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.entries)
	m.entries = slices.DeleteFunc(m.entries, func(e *entry[T]) bool {
		return !e.ref.alive()
	})
	removed := before - len(m.entries)

	if removed > 0 {
		m.swept.Add(int64(removed))
		m.metrics.RecordSweep(context.Background(), m.typeName, removed)
		m.logger.Debug("stale receivers swept",
			logger.Count("removed", removed),
			logger.Count("registered", len(m.entries)))
	}

	return removed
}

// Send delivers msg synchronously, in registration order, to every live
// receiver whose filter accepts it. It returns once all of them have run.
//
// A panic raised by a receiver propagates to the caller and the remaining
// receivers are not notified. Failures are not collected per receiver;
// receivers that need isolation should recover inside Receive.
func (m *Registry[T]) Send(msg T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var delivered, filtered, stale int
	defer func() {
		m.sent.Add(1)
		m.delivered.Add(int64(delivered))
		m.filtered.Add(int64(filtered))
		m.stale.Add(int64(stale))
		m.metrics.RecordSend(context.Background(), m.typeName, delivered, filtered, stale)
	}()

	for _, e := range m.entries {
		r, ok := e.ref.resolve()
		if !ok {
			stale++
			continue
		}
		if !e.filter.match(msg) {
			filtered++
			continue
		}
		r.Receive(msg)
		delivered++
	}
}

// RegisteredCount returns the number of entries, stale ones included.
// It matches the number of live receivers only right after CheckAlive.
func (m *Registry[T]) RegisteredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// Entries returns a snapshot of all entries in registration order.
func (m *Registry[T]) Entries() []EntryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]EntryInfo, 0, len(m.entries))
	for _, e := range m.entries {
		items = append(items, e.info())
	}
	return items
}

// Stats returns a snapshot of the registry counters.
func (m *Registry[T]) Stats() Stats {
	return Stats{
		Registered: m.RegisteredCount(),
		Sent:       m.sent.Load(),
		Delivered:  m.delivered.Load(),
		Filtered:   m.filtered.Load(),
		Stale:      m.stale.Load(),
		Swept:      m.swept.Load(),
	}
}

// TypeName returns the message type this registry dispatches.
func (m *Registry[T]) TypeName() string {
	return m.typeName
}

// indexOf must be called with m.mu held.
func (m *Registry[T]) indexOf(ref weakRef[T]) int {
	return slices.IndexFunc(m.entries, func(e *entry[T]) bool {
		return e.ref.same(ref)
	})
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
