package session

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBrokerDeliversToUserOnly(t *testing.T) {
	c := qt.New(t)
	b := NewBroker(nil)

	mine, cancelMine := b.Subscribe("u1")
	defer cancelMine()
	other, cancelOther := b.Subscribe("u2")
	defer cancelOther()

	b.Publish(context.Background(), Event{UserID: "u1", Kind: KindSignedOut})

	ev := <-mine
	c.Assert(ev.Kind, qt.Equals, KindSignedOut)
	c.Assert(ev.At.IsZero(), qt.IsFalse)
	select {
	case ev := <-other:
		c.Fatalf("unexpected event for u2: %+v", ev)
	default:
	}
}

func TestBrokerCancelReleasesSubscription(t *testing.T) {
	c := qt.New(t)
	b := NewBroker(nil)

	ch, cancel := b.Subscribe("u1")
	c.Assert(b.Subscribers("u1"), qt.Equals, 1)
	cancel()
	cancel()
	c.Assert(b.Subscribers("u1"), qt.Equals, 0)

	_, open := <-ch
	c.Assert(open, qt.IsFalse)

	// Publishing after release must not panic on the closed channel.
	b.Publish(context.Background(), Event{UserID: "u1", Kind: KindProfileUpdated})
}

func TestBrokerSlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker(nil)
	_, cancel := b.Subscribe("u1")
	defer cancel()
	for i := 0; i < subscriberBuffer*3; i++ {
		b.Publish(context.Background(), Event{UserID: "u1", Kind: KindProfileUpdated})
	}
}
