package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/arcade/internal/arcade"
)

// Broker is an in-process pub/sub of session snapshots, keyed by session ID.
// SSE streams and WebSocket connections subscribe to it.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded snapshots for the
// given session.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Publish sends snap to every subscriber of its session.
func (b *Broker) Publish(snap arcade.Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.subs[snap.SessionID]) == 0 {
		return
	}
	data, _ := json.Marshal(snap)
	for ch := range b.subs[snap.SessionID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
}

func (b *Broker) subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}
