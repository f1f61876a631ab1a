// Package observer provides a small synchronous event registry used by the
// ledger and organizer to tell views that their data changed.
package observer

import "time"

type Kind string

const (
	RecordAdded     Kind = "record_added"
	RecordRemoved   Kind = "record_removed"
	TrackerAdded    Kind = "tracker_added"
	TrackerUpdated  Kind = "tracker_updated"
	TrackerDeleted  Kind = "tracker_deleted"
	TrackerPinned   Kind = "tracker_pinned"
	TrackerUnpinned Kind = "tracker_unpinned"
	CategoryAdded   Kind = "category_added"
	CategoryDeleted Kind = "category_deleted"
)

// Event describes a single mutation. Fields that do not apply to Kind are zero.
type Event struct {
	Kind      Kind
	TrackerID string
	Category  string
	Date      time.Time
}

type Handler func(Event)

// Registry holds handlers in registration order. It is not safe for
// concurrent use.
type Registry struct {
	next     int
	handlers map[int]Handler
	order    []int
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[int]Handler)}
}

// Register adds h and returns a token for Unregister.
func (r *Registry) Register(h Handler) int {
	r.next++
	r.handlers[r.next] = h
	r.order = append(r.order, r.next)
	return r.next
}

func (r *Registry) Unregister(token int) {
	if _, ok := r.handlers[token]; !ok {
		return
	}
	delete(r.handlers, token)
	for i, t := range r.order {
		if t == token {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Emit calls every registered handler before returning.
func (r *Registry) Emit(e Event) {
	// Handlers may unregister themselves while running
	tokens := append([]int(nil), r.order...)
	for _, t := range tokens {
		if h, ok := r.handlers[t]; ok {
			h(e)
		}
	}
}

func (r *Registry) Len() int {
	return len(r.handlers)
}
