// Package events provides a small synchronous pub/sub broker for finality
// notifications emitted by the consensus engine.
package events

import (
	"log"
	"sync"

	"github.com/latticefold/sequencer/types"
)

// FinalityEvent is emitted once per committed block.
type FinalityEvent struct {
	Block types.Block
	View  types.ViewNumber
}

// Handler is a callback invoked for each emitted FinalityEvent.
type Handler func(FinalityEvent)

// Bus is a pub/sub broker. Subscribe before Emit to receive events; there
// is no replay of events emitted before a handler registers.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates a Bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h to be called for every future FinalityEvent.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit delivers ev to all subscribers synchronously. Each handler is
// guarded by panic recovery so a misbehaving subscriber cannot halt block
// production.
func (b *Bus) Emit(ev FinalityEvent) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[events] handler panicked for block %s: %v", ev.Block.ID(), r)
				}
			}()
			h(ev)
		}()
	}
}
