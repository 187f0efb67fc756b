package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"memberportal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventKind describes what changed about a session.
type EventKind string

const (
	KindSignedIn       EventKind = "signed_in"
	KindSignedOut      EventKind = "signed_out"
	KindProfileUpdated EventKind = "profile_updated"
	KindRoleChanged    EventKind = "role_changed"
)

// Event is a session change for one user.
type Event struct {
	UserID string    `json:"userId"`
	Kind   EventKind `json:"kind"`
	At     time.Time `json:"at"`
	Origin string    `json:"origin,omitempty"`
}

const subscriberBuffer = 8

// Broker fans session events out to subscribers of the same user. With a
// Redis client it also relays events between instances.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[uint64]chan Event
	nextID uint64

	relay  *redis.Client
	origin string
}

// NewBroker returns a broker; relay may be nil for a single instance.
func NewBroker(relay *redis.Client) *Broker {
	return &Broker{
		subs:   make(map[string]map[uint64]chan Event),
		relay:  relay,
		origin: uuid.New().String(),
	}
}

// Subscribe registers interest in userID's events. The returned cancel func
// must be called once the caller stops reading; it closes the channel.
func (b *Broker) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[uint64]chan Event)
	}
	b.subs[userID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of live subscriptions for userID.
func (b *Broker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}

// Publish delivers ev locally and, when relaying, to the other instances.
func (b *Broker) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	ev.Origin = b.origin
	b.deliver(ev)

	if b.relay == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.relay.Publish(ctx, utils.SessionEventsChannel, payload).Err(); err != nil {
		utils.GetLogger().Warn("Failed to relay session event", zap.String("userID", ev.UserID), zap.Error(err))
	}
}

// deliver never blocks; a subscriber that is not keeping up misses events.
func (b *Broker) deliver(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Run consumes relayed events until ctx is done. It returns immediately
// when the broker has no relay.
func (b *Broker) Run(ctx context.Context) {
	if b.relay == nil {
		return
	}
	pubsub := b.relay.Subscribe(ctx, utils.SessionEventsChannel)
	defer pubsub.Close()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				utils.GetLogger().Warn("Dropping malformed session event", zap.Error(err))
				continue
			}
			if ev.Origin == b.origin {
				continue
			}
			b.deliver(ev)
		}
	}
}
