package feed

import "sync"

// EventType kind of store change
type EventType int

// Store changes
const (
	EventPageCommitted EventType = iota
	EventRecordUpdated
)

const subscriberBuffer = 16

// Event store change notification. Key is set for pages, ID for records.
type Event struct {
	Type EventType
	Key  string
	ID   string
}

type broker struct {
	mu          sync.Mutex
	subscribers map[int]chan Event
	next        int
	closed      bool
}

func newBroker() *broker {
	return &broker{subscribers: map[int]chan Event{}}
}

func (b *broker) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}
}

// publish never blocks, a subscriber with a full buffer misses the event
func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}
