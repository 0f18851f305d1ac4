package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionEvent notifies subscribers that session state changed somewhere
// in the system: a sign-in, a sign-out, or a token refresh.
type SessionEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

// Session event types.
const (
	TypeSignedIn  = "signed_in"
	TypeSignedOut = "signed_out"
	TypeRefreshed = "refreshed"
)

// Broadcaster is the abstraction over event backends.
type Broadcaster interface {
	Publish(ctx context.Context, evt SessionEvent) error
	Subscribe(ctx context.Context) (<-chan SessionEvent, error)
}

// InMemory is a channel-backed broadcaster for dev and testing. Every
// subscriber gets its own buffered channel; slow subscribers drop events
// rather than block publishers.
type InMemory struct {
	mu   sync.Mutex
	subs []chan SessionEvent
	size int
}

// NewInMemory creates a broadcaster whose subscriber channels hold size events.
func NewInMemory(size int) *InMemory {
	if size <= 0 {
		size = 16
	}
	return &InMemory{size: size}
}

// Publish fans the event out to every live subscriber.
func (b *InMemory) Publish(_ context.Context, evt SessionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber; the channel closes when ctx ends.
func (b *InMemory) Subscribe(ctx context.Context) (<-chan SessionEvent, error) {
	ch := make(chan SessionEvent, b.size)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		for i, sub := range b.subs {
			if sub == ch {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// RedisBroadcaster carries session events over redis pub/sub so every
// running instance sees changes made by its peers.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
}

// NewRedisBroadcaster builds a broadcaster on the given pub/sub channel.
func NewRedisBroadcaster(client *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = "coachtrack:sessions"
	}
	return &RedisBroadcaster{client: client, channel: channel}
}

// Publish serializes the event and publishes it.
func (b *RedisBroadcaster) Publish(ctx context.Context, evt SessionEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Subscribe streams events until ctx is cancelled.
func (b *RedisBroadcaster) Subscribe(ctx context.Context) (<-chan SessionEvent, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, err
	}

	out := make(chan SessionEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var evt SessionEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
