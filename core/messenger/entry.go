package messenger

import (
	"time"

	"github.com/google/uuid"
)

// entry is a single subscription: a weak receiver reference plus an optional filter.
type entry[T any] struct {
	id           uuid.UUID
	name         string
	ref          weakRef[T]
	filter       Filter[T]
	registeredAt time.Time
}

// EntryInfo is a read-only view of a registration, used for diagnostics.
type EntryInfo struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name,omitempty"` // label set with WithName
	ReceiverType string    `json:"receiver_type"`  // dynamic type, e.g. "*main.StatusView"
	Alive        bool      `json:"alive"`          // false for stale entries awaiting CheckAlive
	Filtered     bool      `json:"filtered"`       // true when a filter was supplied
	RegisteredAt time.Time `json:"registered_at"`
}

func (e *entry[T]) info() EntryInfo {
	return EntryInfo{
		ID:           e.id,
		Name:         e.name,
		ReceiverType: e.ref.typeName(),
		Alive:        e.ref.alive(),
		Filtered:     e.filter != nil,
		RegisteredAt: e.registeredAt,
	}
}
