package scan

import (
	"sync"

	"github.com/L1nMay/tcpscan/internal/model"
)

// Hub fans progress snapshots out to subscribers. Publish never blocks:
// a subscriber with a full buffer misses that update.
type Hub struct {
	mu   sync.Mutex
	subs map[chan model.Progress]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan model.Progress]struct{})}
}

func (h *Hub) Subscribe() chan model.Progress {
	ch := make(chan model.Progress, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan model.Progress) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(p model.Progress) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- p:
		default:
		}
	}
	h.mu.Unlock()
}

// Subscribe registers for progress updates of this scanner's scans.
func (s *Scanner) Subscribe() chan model.Progress {
	return s.hub.Subscribe()
}

func (s *Scanner) Unsubscribe(ch chan model.Progress) {
	if ch == nil {
		return
	}
	s.hub.Unsubscribe(ch)
}
