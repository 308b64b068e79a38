package messenger

// Receiver is implemented by anything that wants to observe messages of type T.
//
// Receivers are tracked by pointer identity and are never kept alive by a
// Registry: dropping the last reference to a receiver is enough to stop
// delivery, no Unregister call required.
//
// The pointee must contain a pointer field (string, slice, map, pointer,
// interface...) or be at least 16 bytes. Smaller pointer-free values may
// share memory with unrelated allocations and would never be reclaimed
// individually, so Register rejects them with ErrUnsupportedReceiver.
//
// Example:
//
//	type StatusView struct {
//	    text string
//	}
//
//	func (v *StatusView) Receive(msg StatusChanged) {
//	    v.text = msg.Text
//	}
type Receiver[T any] interface {
	Receive(msg T)
}

// Filter decides whether a message should reach a particular receiver.
// A nil Filter matches every message.
type Filter[T any] func(msg T) bool

func (f Filter[T]) match(msg T) bool {
	return f == nil || f(msg)
}
