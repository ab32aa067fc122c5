package sessionmgr

import (
	"context"
	"sync"
)

const subscriberBuffer = 8

// hub fans state snapshots out to subscribers. Slow consumers drop
// snapshots rather than block a state transition; the current snapshot is
// always available synchronously through Manager.State, so a dropped
// intermediate value is never a correctness problem.
type hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan Snapshot
}

func newHub() *hub {
	return &hub{subs: make(map[uint64]chan Snapshot)}
}

// subscribe registers a new subscriber whose lifetime is bound to ctx.
// When ctx is cancelled the channel is closed and the subscription removed.
func (h *hub) subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}()

	return ch
}

func (h *hub) publish(snapshot Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- snapshot:
		default:
			// Subscriber is not keeping up; drop rather than block.
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
