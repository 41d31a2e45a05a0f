package service

import "sync"

// CartUpdate is broadcast after every cart mutation so other parts of the
// UI (the header badge, mostly) can refresh their count.
type CartUpdate struct {
	SessionID string
	Count     int
}

// Notifier is a small in-process fan-out. Slow subscribers drop updates
// instead of blocking cart operations.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan CartUpdate
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan CartUpdate)}
}

func (n *Notifier) Subscribe() (<-chan CartUpdate, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	ch := make(chan CartUpdate, 8)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (n *Notifier) Publish(update CartUpdate) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- update:
		default:
		}
	}
}
