package events

// ChannelEvent provides pub/sub over channels. Sends never block: a listener
// whose channel is full misses that value.
type ChannelEvent[T any] struct {
	set listenerSet[chan<- T, T]
}

// NewChannelEvent creates a ChannelEvent. If sendLastEventOnListen is true, a
// channel registered after the first Notify immediately receives the last value.
func NewChannelEvent[T any](sendLastEventOnListen bool) *ChannelEvent[T] {
	e := &ChannelEvent[T]{}
	e.set.replayLast = sendLastEventOnListen
	return e
}

// Listen registers ch and returns a function that removes it.
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("channel cannot be nil")
	}
	id, last, replay := e.set.add(ch)
	if replay {
		trySend(ch, last)
	}
	return func() { e.set.remove(id) }
}

// Notify sends value to every registered channel. Safe for concurrent use.
func (e *ChannelEvent[T]) Notify(value T) {
	for _, ch := range e.set.record(value) {
		trySend(ch, value)
	}
}

// ListenerCount returns the number of registered channels.
func (e *ChannelEvent[T]) ListenerCount() int {
	return e.set.count()
}

func trySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
