package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentlens/agentlens/internal/core/model"
)

func TestBusDeliversToMatchingScope(t *testing.T) {
	bus := NewBus()
	scope := model.SessionScope("/proj", "s1")
	sub := bus.Subscribe(scope)
	defer sub.Cancel()

	bus.Publish(scope)

	select {
	case n := <-sub.Notifications():
		assert.Equal(t, scope, n.Scope)
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
}

func TestBusScopeIsolation(t *testing.T) {
	bus := NewBus()
	subA := bus.Subscribe(model.SessionScope("/proj", "s1"))
	defer subA.Cancel()
	subB := bus.Subscribe(model.SessionScope("/proj", "s2"))
	defer subB.Cancel()

	bus.Publish(model.SessionScope("/proj", "s2"))

	select {
	case <-subA.Notifications():
		t.Fatal("notification leaked across scopes")
	default:
	}
	select {
	case <-subB.Notifications():
	case <-time.After(time.Second):
		t.Fatal("expected a notification for s2")
	}
}

func TestBusAgentAndSessionScopesAreDistinct(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(model.AgentScope("/proj", "a1"))
	defer sub.Cancel()

	bus.Publish(model.SessionScope("/proj", "a1"))
	select {
	case <-sub.Notifications():
		t.Fatal("session publish must not reach an agent subscription")
	default:
	}

	bus.Publish(model.AgentScope("/proj", "a1"))
	select {
	case <-sub.Notifications():
	case <-time.After(time.Second):
		t.Fatal("expected an agent-scope notification")
	}
}

func TestBusCoalescesPendingNotifications(t *testing.T) {
	bus := NewBus()
	scope := model.SessionScope("/proj", "s1")
	sub := bus.Subscribe(scope)
	defer sub.Cancel()

	// Undelivered notifications absorb new ones instead of queueing
	for i := 0; i < 5; i++ {
		bus.Publish(scope)
	}

	<-sub.Notifications()
	select {
	case <-sub.Notifications():
		t.Fatal("expected the burst to coalesce into one notification")
	default:
	}
}

func TestBusFansOutToMultipleSubscribers(t *testing.T) {
	bus := NewBus()
	scope := model.SessionScope("/proj", "s1")
	sub1 := bus.Subscribe(scope)
	defer sub1.Cancel()
	sub2 := bus.Subscribe(scope)
	defer sub2.Cancel()

	bus.Publish(scope)

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case <-sub.Notifications():
		case <-time.After(time.Second):
			t.Fatal("expected both subscribers to be notified")
		}
	}
}

func TestCancelClosesChannel(t *testing.T) {
	bus := NewBus()
	scope := model.SessionScope("/proj", "s1")
	sub := bus.Subscribe(scope)

	done := make(chan struct{})
	go func() {
		for range sub.Notifications() {
		}
		close(done)
	}()

	sub.Cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected the notification loop to exit on cancel")
	}

	// Publishing after cancel must not panic
	bus.Publish(scope)
	require.NotPanics(t, func() { sub.Cancel() })
}
