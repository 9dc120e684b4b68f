package kernel

import "reflect"

// EventBus is a synchronous, typed publish/subscribe dispatcher for domain
// events. Dispatch is a single map lookup keyed by the event's runtime
// type, matching core/events/event_bus.py's dict-of-slices-by-type design.
type EventBus struct {
	handlers map[reflect.Type][]func(any)
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[reflect.Type][]func(any))}
}

// Emit dispatches event to every handler subscribed to its runtime type, in
// registration order. Unknown types are a no-op.
func (b *EventBus) Emit(event any) {
	t := reflect.TypeOf(event)
	for _, fn := range b.handlers[t] {
		fn(event)
	}
}

// Subscribe registers fn for events of eventType and returns an unsubscribe
// closure. Go funcs are not comparable, so unsubscribe matches by the
// pointer identity of fn rather than equality.
func (b *EventBus) Subscribe(eventType reflect.Type, fn func(any)) (unsubscribe func()) {
	b.handlers[eventType] = append(b.handlers[eventType], fn)
	target := reflect.ValueOf(fn).Pointer()

	return func() {
		handlers := b.handlers[eventType]
		for i, h := range handlers {
			if reflect.ValueOf(h).Pointer() == target {
				b.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
				return
			}
		}
	}
}

// HasSubscribers reports whether any handler is registered for eventType,
// for hot-path gating before constructing an event value.
func (b *EventBus) HasSubscribers(eventType reflect.Type) bool {
	return len(b.handlers[eventType]) > 0
}

// Clear removes every subscriber.
func (b *EventBus) Clear() {
	b.handlers = make(map[reflect.Type][]func(any))
}
