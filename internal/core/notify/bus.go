package notify

import (
	"fmt"
	"sync"
	"time"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(Notification)

// Bus is a synchronous in-process notification bus. Subscribers run inline on
// the publishing goroutine, so a Bus owned by the Bubble Tea model only ever
// dispatches from the Update loop.
type Bus struct {
	mu          sync.Mutex
	subscribers []Subscriber
	nextID      int64
	now         func() time.Time
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish assigns an ID and timestamp and dispatches n to all subscribers.
func (b *Bus) Publish(n Notification) {
	b.mu.Lock()
	b.nextID++
	n.ID = b.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.Publish(Notification{
		Level:   LevelError,
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(format string, args ...any) {
	b.Publish(Notification{
		Level:   LevelWarning,
		Message: fmt.Sprintf(format, args...),
	})
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) {
	b.Publish(Notification{
		Level:   LevelInfo,
		Message: fmt.Sprintf(format, args...),
	})
}
