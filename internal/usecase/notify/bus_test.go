package notify_test

import (
	"testing"
	"time"

	"newswire/internal/usecase/notify"
)

func recv(t *testing.T, sub *notify.Subscriber) notify.Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return notify.Event{}
	}
}

func assertNoEvent(t *testing.T, sub *notify.Subscriber) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_PublishReachesAttachedSubscriber(t *testing.T) {
	bus := notify.NewBus(nil)
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	bus.Publish(notify.Event{Kind: notify.KindCreated, Message: "News were created"})

	ev := recv(t, sub)
	if ev.Message != "News were created" {
		t.Fatalf("Message = %q", ev.Message)
	}
}

func TestBus_NoReplayForLateSubscriber(t *testing.T) {
	bus := notify.NewBus(nil)

	// Published with nobody attached: dropped, not queued.
	bus.Publish(notify.Event{Kind: notify.KindCreated, Message: "early"})

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	assertNoEvent(t, sub)
}

func TestBus_AllSubscribersReceive(t *testing.T) {
	bus := notify.NewBus(nil)
	first := bus.Subscribe()
	second := bus.Subscribe()
	defer bus.Unsubscribe(first)
	defer bus.Unsubscribe(second)

	bus.Publish(notify.Event{Kind: notify.KindUpdated, Message: "News were updated"})

	if ev := recv(t, first); ev.Kind != notify.KindUpdated {
		t.Fatalf("first Kind = %q", ev.Kind)
	}
	if ev := recv(t, second); ev.Kind != notify.KindUpdated {
		t.Fatalf("second Kind = %q", ev.Kind)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := notify.NewBus(nil)
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)

	bus.Publish(notify.Event{Kind: notify.KindDeleted, Message: "News were deleted"})
	assertNoEvent(t, sub)

	// Idempotent detach.
	bus.Unsubscribe(sub)
	bus.Unsubscribe(nil)
	if bus.Len() != 0 {
		t.Fatalf("Len = %d, want 0", bus.Len())
	}
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := notify.NewBus(nil)
	slow := bus.Subscribe() // never reads
	fast := bus.Subscribe()
	defer bus.Unsubscribe(slow)
	defer bus.Unsubscribe(fast)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Well past the slow subscriber's buffer.
		for i := 0; i < 100; i++ {
			bus.Publish(notify.Event{Kind: notify.KindCreated, Message: "n"})
			// Keep the fast subscriber drained.
			select {
			case <-fast.Events():
			default:
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestBus_ConcurrentAttachDetachDuringPublish(t *testing.T) {
	bus := notify.NewBus(nil)
	stop := make(chan struct{})

	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				sub := bus.Subscribe()
				bus.Unsubscribe(sub)
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		bus.Publish(notify.Event{Kind: notify.KindPublished, Message: "News were publicated"})
	}
	close(stop)
}
