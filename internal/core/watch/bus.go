// Package watch delivers "this log changed" notifications to timelines.
// A Bus fans out notifications to subscribers registered per scope; a
// Watcher turns filesystem events into bus publishes. Delivery is
// at-least-once and unordered relative to in-flight loads; consumers
// respond with a fresh first-page fetch, so a dropped notification
// self-heals on the next one.
package watch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/agentlens/agentlens/internal/core/model"
)

// Notification signals that the log behind a scope changed on disk.
type Notification struct {
	Scope model.Scope
}

// Subscription is one listener registration on the bus. Notifications
// are coalesced: a pending undelivered notification absorbs new ones.
type Subscription struct {
	id    string
	scope model.Scope
	ch    chan Notification
	bus   *Bus
}

// Notifications returns the delivery channel.
func (s *Subscription) Notifications() <-chan Notification {
	return s.ch
}

// Cancel removes the subscription from the bus. Safe to call more than
// once.
func (s *Subscription) Cancel() {
	s.bus.remove(s)
}

// Bus is an in-process notification registry keyed by scope. Multiple
// timelines share one bus; each subscription only ever sees its own
// scope's notifications.
type Bus struct {
	mu   sync.Mutex
	subs map[string]map[string]*Subscription // scope key -> subscription id -> sub
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[string]*Subscription)}
}

// Subscribe registers a listener for exactly the given scope.
func (b *Bus) Subscribe(scope model.Scope) *Subscription {
	sub := &Subscription{
		id:    uuid.NewString(),
		scope: scope,
		ch:    make(chan Notification, 1),
		bus:   b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	key := scope.Key()
	if b.subs[key] == nil {
		b.subs[key] = make(map[string]*Subscription)
	}
	b.subs[key][sub.id] = sub
	return sub
}

// Publish delivers a notification to every subscription whose scope key
// matches exactly. Subscriptions with an undelivered notification are
// skipped (coalescing) rather than blocked on.
func (b *Bus) Publish(scope model.Scope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs[scope.Key()] {
		select {
		case sub.ch <- Notification{Scope: scope}:
		default:
		}
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := sub.scope.Key()
	group, ok := b.subs[key]
	if !ok {
		return
	}
	if _, ok := group[sub.id]; !ok {
		return
	}
	delete(group, sub.id)
	if len(group) == 0 {
		delete(b.subs, key)
	}
	// Publish holds the same lock, so closing here cannot race a send
	close(sub.ch)
}
