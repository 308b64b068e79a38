package messenger

import (
	"reflect"
	"unsafe"
	"weak"
)

// weakRef is a non-owning reference to a receiver.
//
// The weak pointer is taken on the first byte of the pointee, which is the
// base of the allocation, and the dynamic pointer type is kept alongside so
// the original interface value can be rebuilt on resolve. Two refs made from
// the same live receiver compare equal; a ref to a reclaimed receiver never
// equals a ref to a new object, even one allocated at the same address.
type weakRef[T any] struct {
	typ reflect.Type
	ptr weak.Pointer[byte]
}

// makeRef validates r and returns a weak reference to it.
func makeRef[T any](r Receiver[T]) (weakRef[T], error) {
	if r == nil {
		return weakRef[T]{}, ErrNilReceiver
	}

	v := reflect.ValueOf(r)
	if v.Kind() != reflect.Pointer {
		return weakRef[T]{}, ErrUnsupportedReceiver
	}
	if v.IsNil() {
		return weakRef[T]{}, ErrNilReceiver
	}
	if !trackable(v.Type().Elem()) {
		return weakRef[T]{}, ErrUnsupportedReceiver
	}

	return weakRef[T]{
		typ: v.Type(),
		ptr: weak.Make((*byte)(v.UnsafePointer())),
	}, nil
}

// tinySize matches the runtime's tiny allocator limit. Pointer-free objects
// below it may share one memory block with other allocations, so a weak
// pointer to them keeps resolving after they are dropped.
const tinySize = 16

// trackable reports whether values of t can be told apart and reclaimed
// individually. Zero-sized values share a single address.
func trackable(t reflect.Type) bool {
	if t.Size() == 0 {
		return false
	}
	return t.Size() >= tinySize || hasPointers(t)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// resolve returns the receiver if it is still alive.
func (w weakRef[T]) resolve() (Receiver[T], bool) {
	p := w.ptr.Value()
	if p == nil {
		return nil, false
	}
	r, ok := reflect.NewAt(w.typ.Elem(), unsafe.Pointer(p)).Interface().(Receiver[T])
	return r, ok
}

// alive reports whether the referenced receiver has not been reclaimed.
func (w weakRef[T]) alive() bool {
	return w.ptr.Value() != nil
}

// same reports whether both refs point at the same receiver.
func (w weakRef[T]) same(o weakRef[T]) bool {
	return w.typ == o.typ && w.ptr == o.ptr
}

// typeName returns the receiver's dynamic type, e.g. "*views.StatusView".
func (w weakRef[T]) typeName() string {
	if w.typ == nil {
		return ""
	}
	return w.typ.String()
}
