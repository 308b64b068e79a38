package messenger

import "reflect"

// Forget drops T's process-wide registry so the next Of creates a new one
// with the current default options.
func Forget[T any]() {
	instances.mu.Lock()
	defer instances.mu.Unlock()

	delete(instances.registries, reflect.TypeFor[T]())
}
