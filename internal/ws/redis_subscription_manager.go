package ws

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"lotauctiongo/internal/events"
)

// subscriptionManager guarantees exactly one Redis subscription per
// "lot:<id>:events" channel, no matter how many websocket clients watch the
// same lot.
type subscriptionManager struct {
	rdc  *redis.Client
	hub  *Hub
	mu   sync.Mutex
	subs map[int64]*subEntry
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

func newSubscriptionManager(rdc *redis.Client, hub *Hub) *subscriptionManager {
	return &subscriptionManager{
		rdc:  rdc,
		hub:  hub,
		subs: make(map[int64]*subEntry),
	}
}

// Subscribe ensures that the process is subscribed to the lot's channel;
// subsequent calls for the same lot only increment the ref-counter.
func (sm *subscriptionManager) Subscribe(lotID int64) {
	sm.mu.Lock()
	if e, ok := sm.subs[lotID]; ok {
		e.refCnt++
		sm.mu.Unlock()
		return
	}

	// First watcher of this lot: create the Redis SUB and fan-out loop.
	ctx, cancel := context.WithCancel(context.Background())
	ps := sm.rdc.Subscribe(ctx, events.ChannelFor(lotID))

	sm.subs[lotID] = &subEntry{refCnt: 1, cancel: cancel}
	sm.mu.Unlock()

	go func() {
		defer ps.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ps.Channel():
				if !ok { // Redis connection closed.
					return
				}
				sm.hub.Broadcast(lotID, []byte(m.Payload))
			}
		}
	}()
}

// Unsubscribe decrements the ref-counter and tears the Redis SUB down when
// the last websocket client leaves the room.
func (sm *subscriptionManager) Unsubscribe(lotID int64) {
	sm.mu.Lock()
	e, ok := sm.subs[lotID]
	if !ok {
		sm.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.subs, lotID)
	sm.mu.Unlock()

	// Outside the lock: stop the fan-out goroutine.
	e.cancel()
}
