package messenger

import (
	"reflect"
	"slices"
	"sync"
)

// sweepable is the type-erased view of a Registry held by the store.
type sweepable interface {
	CheckAlive() int
	UnregisterAll()
	TypeName() string
}

// store maps each message type to its process-wide Registry.
type store struct {
	mu         sync.Mutex
	registries map[reflect.Type]sweepable
	defaults   []Option
}

var instances = &store{registries: make(map[reflect.Type]sweepable)}

// Of returns the process-wide Registry for message type T, creating it on
// first use. Concurrent first calls create exactly one instance.
//
// Example:
//
//	messenger.Of[StatusChanged]().Send(StatusChanged{Key: "header", Text: "Saved"})
func Of[T any]() *Registry[T] {
	key := reflect.TypeFor[T]()

	instances.mu.Lock()
	defer instances.mu.Unlock()

	if r, ok := instances.registries[key]; ok {
		return r.(*Registry[T])
	}
	r := New[T](instances.defaults...)
	instances.registries[key] = r
	return r
}

// SetDefaultOptions sets the options applied to registries that Of creates
// after this call. Registries that already exist are not changed.
func SetDefaultOptions(opts ...Option) {
	instances.mu.Lock()
	defer instances.mu.Unlock()

	instances.defaults = slices.Clone(opts)
}

// Reset removes every entry from T's registry, if it has been created.
// Intended for test isolation.
func Reset[T any]() {
	instances.mu.Lock()
	r, ok := instances.registries[reflect.TypeFor[T]()]
	instances.mu.Unlock()

	if ok {
		r.UnregisterAll()
	}
}

// ResetAll removes every entry from every registry created by Of.
func ResetAll() {
	for _, r := range instances.snapshot() {
		r.UnregisterAll()
	}
}

// SweepAll runs CheckAlive on every registry created by Of and returns the
// total number of stale entries removed.
func SweepAll() int {
	removed := 0
	for _, r := range instances.snapshot() {
		removed += r.CheckAlive()
	}
	return removed
}

// Types returns the sorted names of message types that have a registry.
func Types() []string {
	regs := instances.snapshot()
	names := make([]string, 0, len(regs))
	for _, r := range regs {
		names = append(names, r.TypeName())
	}
	slices.Sort(names)
	return names
}

// snapshot copies the registry list so callers never hold the store lock
// while taking a registry lock.
func (s *store) snapshot() []sweepable {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs := make([]sweepable, 0, len(s.registries))
	for _, r := range s.registries {
		regs = append(regs, r)
	}
	return regs
}
