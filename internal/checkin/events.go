package checkin

import "sync"

// eventChannelBuffer bounds each listener's queue; slow listeners drop
// events rather than blocking the orchestrator.
const eventChannelBuffer = 16

// Event is one orchestrator transition, streamed to UI listeners.
type Event struct {
	Type      string  `json:"type"`
	Status    Status  `json:"status"`
	CheckType string  `json:"check_type,omitempty"`
	Result    *Result `json:"result,omitempty"`
}

// broadcaster fans orchestrator events out to listeners.
type broadcaster struct {
	mu        sync.RWMutex
	listeners []chan Event
}

// AddListener registers a new event listener channel.
func (b *broadcaster) AddListener() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, eventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes and closes a listener channel.
func (b *broadcaster) RemoveListener(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// send delivers an event to all listeners, skipping full buffers.
func (b *broadcaster) send(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}
