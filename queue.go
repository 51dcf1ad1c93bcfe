package daylog

// ChanQueue is a bounded Queue backed by a buffered channel.
// Push never blocks, a full queue rejects the entry.
type ChanQueue struct {
	ch chan Entry
}

// NewChanQueue creates a queue holding up to capacity entries
func NewChanQueue(capacity int) *ChanQueue {
	if capacity <= 0 {
		capacity = int(defaultConfig.BufferSize)
	}
	return &ChanQueue{ch: make(chan Entry, capacity)}
}

// Push enqueues e without blocking
func (q *ChanQueue) Push(e Entry) bool {
	select {
	case q.ch <- e:
		return true
	default:
		return false
	}
}

// Pop dequeues without blocking
func (q *ChanQueue) Pop() (Entry, bool) {
	select {
	case e := <-q.ch:
		return e, true
	default:
		return Entry{}, false
	}
}

// Len returns the number of buffered entries
func (q *ChanQueue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity
func (q *ChanQueue) Cap() int {
	return cap(q.ch)
}
