package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish("plan completed")
	if v := <-ch; v != "plan completed" {
		t.Fatalf("expected the published event, got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusFanOut(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Publish(42)
	if v := <-ch1; v != 42 {
		t.Fatalf("subscriber 1 got %v", v)
	}
	if v := <-ch2; v != 42 {
		t.Fatalf("subscriber 2 got %v", v)
	}
	bus.Close()
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	// Never read: once the buffer fills, further publishes must drop
	// instead of stalling the publisher.
	for i := 0; i < subBuffer*3; i++ {
		bus.Publish(i)
	}
	if got := len(ch); got != subBuffer {
		t.Fatalf("expected a full buffer of %d, got %d", subBuffer, got)
	}
	if got := bus.Dropped(); got != uint64(subBuffer*2) {
		t.Fatalf("expected %d dropped events, got %d", subBuffer*2, got)
	}
	bus.Close()
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	// Publishing after close is a no-op, not a panic.
	bus.Publish("late")
}

func TestBusSubscribeAfterClose(t *testing.T) {
	bus := New()
	bus.Close()
	ch := bus.Subscribe()
	if _, ok := <-ch; ok {
		t.Fatalf("expected an immediately closed channel")
	}
	bus.Unsubscribe(ch)
}
