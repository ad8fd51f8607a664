package gateway

import (
	"log/slog"
	"sync"

	"github.com/eleven-am/insight-backend/internal/session"
)

// Hub fans session events out to every socket attached to that session. It
// is handed to the session manager as its event sink.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]map[*streamConn]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]map[*streamConn]struct{}),
		logger: logger.With("component", "gateway_hub"),
	}
}

// Publish implements session.EventSink. It must never block: slow dashboards
// get dropped events, not a stalled sampler.
func (h *Hub) Publish(sessionID string, evt session.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.conns[sessionID] {
		conn.Send(ServerEvent{Type: evt.Type, Payload: evt.Payload})
	}
}

func (h *Hub) register(sessionID string, conn *streamConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*streamConn]struct{})
	}
	h.conns[sessionID][conn] = struct{}{}
}

func (h *Hub) unregister(sessionID string, conn *streamConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns[sessionID], conn)
	if len(h.conns[sessionID]) == 0 {
		delete(h.conns, sessionID)
	}
}

func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, conns := range h.conns {
		total += len(conns)
	}
	return total
}
