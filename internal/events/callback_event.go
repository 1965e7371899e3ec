package events

// CallbackEvent provides pub/sub with type-safe callbacks.
// Callbacks run synchronously on the notifying goroutine, in registration order.
type CallbackEvent[T any] struct {
	set listenerSet[func(T), T]
}

// NewCallbackEvent creates a CallbackEvent. If sendLastEventOnListen is true, a
// listener registered after the first Notify is called immediately with the
// last value.
func NewCallbackEvent[T any](sendLastEventOnListen bool) *CallbackEvent[T] {
	e := &CallbackEvent[T]{}
	e.set.replayLast = sendLastEventOnListen
	return e
}

// Listen registers callback and returns a function that removes it.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}
	id, last, replay := e.set.add(callback)
	if replay {
		callback(last)
	}
	return func() { e.set.remove(id) }
}

// Notify calls every registered callback with value. Safe for concurrent use.
func (e *CallbackEvent[T]) Notify(value T) {
	for _, callback := range e.set.record(value) {
		callback(value)
	}
}

// ListenerCount returns the number of registered callbacks.
func (e *CallbackEvent[T]) ListenerCount() int {
	return e.set.count()
}
