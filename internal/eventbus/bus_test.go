package eventbus

import (
	"testing"
	"time"
)

func TestSubscribePrefixFilter(t *testing.T) {
	t.Parallel()
	b := New()
	rem, unsubRem := b.Subscribe(4, "reminder.")
	all, unsubAll := b.Subscribe(4)
	defer unsubRem()
	defer unsubAll()

	b.Publish(Event{Type: NotifySent})
	b.Publish(Event{Type: ReminderFired, Data: "id-1"})

	select {
	case e := <-rem:
		if e.Type != ReminderFired || e.Time.IsZero() {
			t.Fatalf("unexpected event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("reminder subscriber got nothing")
	}
	select {
	case e := <-rem:
		t.Fatalf("filtered subscriber received %q", e.Type)
	default:
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered subscriber has %d events, want 2", len(all))
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	t.Parallel()
	b := New()
	_, unsub := b.Subscribe(1)
	for i := 0; i < 10; i++ {
		b.Publish(Event{Type: ReminderAdded})
	}
	unsub()
	unsub()
	b.Publish(Event{Type: ReminderAdded})
}
