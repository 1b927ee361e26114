// Package notify broadcasts change events after successful mutations, so
// read-side views can refresh themselves without any global registry of
// "the active window".
package notify

import "sync"

// Kind identifies which part of a user's data changed.
type Kind string

const (
	TransactionsChanged Kind = "transactions"
	BudgetsChanged      Kind = "budgets"
)

// Change is one mutation event.
type Change struct {
	UserID string
	Kind   Kind
}

// Broadcaster fans Change events out to subscribers. Publishing never
// blocks: a subscriber that has fallen behind misses events rather than
// stalling the mutation that produced them. A nil *Broadcaster is valid and
// drops everything, so wiring one up is optional.
type Broadcaster struct {
	mu   sync.Mutex
	subs []chan Change
}

// New creates an empty Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a new listener and returns its channel.
func (b *Broadcaster) Subscribe() <-chan Change {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Change, 16)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers a change to every subscriber that can take it.
func (b *Broadcaster) Publish(c Change) {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
