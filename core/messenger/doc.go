// Package messenger provides an in-process, type-safe publish/subscribe
// registry. Producers send a typed message; every registered receiver whose
// optional filter accepts it is called synchronously, in registration order,
// before Send returns.
//
// It is meant for decoupling producers from consumers inside one process,
// for example views from view-models. There is no queueing, no persistence
// and no delivery across processes: a message sent with no receivers is dropped.
//
// # Core Components
//
// Receiver[T] is the single-method interface an observer implements.
//
// Registry[T] holds the registrations for one message type. Of[T]() returns
// the process-wide instance for T, created on first use; New[T]() builds a
// standalone one, which is handy for tests.
//
// Messenger[T] is the interface satisfied by *Registry[T], for consumers that
// want to be tested against a mock.
//
// Sweeper periodically removes entries whose receivers were reclaimed.
//
// # Basic Usage
//
//	type StatusChanged struct {
//		Key  string
//		Text string
//	}
//
//	type StatusView struct {
//		Text string
//	}
//
//	func (v *StatusView) Receive(msg StatusChanged) {
//		v.Text = msg.Text
//	}
//
//	header := &StatusView{}
//	footer := &StatusView{}
//
//	reg := messenger.Of[StatusChanged]()
//	reg.Register(header, messenger.WithFilter(func(msg StatusChanged) bool {
//		return msg.Key == "header"
//	}))
//	reg.Register(footer, messenger.WithFilter(func(msg StatusChanged) bool {
//		return msg.Key == "footer"
//	}))
//
//	reg.Send(StatusChanged{Key: "header", Text: "Saved"})
//	// header.Text == "Saved", footer.Text == ""
//
// # Receiver Lifetime
//
// A Registry never keeps a receiver alive. It stores a weak reference, so
// once the owner drops its last reference the receiver can be collected
// without an Unregister call. Its entry then becomes stale: Send skips it,
// IsRegistered and Unregister never match it, and RegisteredCount still
// counts it until CheckAlive (or a Sweeper) removes it.
//
// Receivers must be pointers to values that either contain a pointer field or
// are at least 16 bytes. Smaller pointer-free values may share an allocation
// with unrelated objects and would never be reclaimed, so Register rejects
// them with ErrUnsupportedReceiver.
//
// Receivers must be non-nil pointers to heap-allocated values of non-zero
// size. Identity is pointer identity; registering the same pointer twice
// is a no-op and keeps the first filter.
//
// # Concurrency
//
// All Registry methods share one mutex and hold it for their full duration.
// Concurrent registrations never lose updates and Send iterates a consistent
// list. The mutex is not reentrant, so a Receive implementation must not call
// back into the Registry that is notifying it. Registries for different
// message types are independent.
//
// # Errors
//
// Register and Unregister return ErrNilReceiver or ErrUnsupportedReceiver
// for receivers that cannot be tracked. A panic inside Receive propagates out
// of Send and the remaining receivers are not notified; failures are not
// aggregated per receiver.
//
// # Observability
//
// Registries log registration changes at debug level through the logger
// given with WithLogger, and count sends, deliveries, filtered and stale
// entries through a MetricsRecorder (OpenTelemetry or NoopMetrics).
// SetDefaultOptions applies both to registries created by Of.
//
// # Testing
//
// Use Reset[T]() between test cases that share the process-wide registry,
// or build an isolated one with New[T]().
package messenger
