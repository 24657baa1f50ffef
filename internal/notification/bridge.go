package notification

import (
	"sync"
)

// Listener receives in-app notifications.
type Listener func(n Notification)

// Bridge fans notifications out to registered listeners.
type Bridge struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

func NewBridge() *Bridge {
	return &Bridge{listeners: make(map[int]Listener)}
}

// AddListener registers l and returns the id to remove it with.
func (b *Bridge) AddListener(l Listener) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.listeners[b.nextID] = l
	return b.nextID
}

func (b *Bridge) RemoveListener(id int) {
	b.mu.Lock()
	delete(b.listeners, id)
	b.mu.Unlock()
}

// Emit calls every listener synchronously.
func (b *Bridge) Emit(n Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.listeners {
		l(n)
	}
}

func (b *Bridge) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
