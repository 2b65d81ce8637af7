package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// writeWait bounds how long a single connection may stall a push before it
// is dropped.
const writeWait = 5 * time.Second

// Hub tracks open websocket connections per user and fans report updates
// out to them. A user may hold several connections (multiple tabs/devices).
type Hub struct {
	mu    sync.Mutex
	conns map[string][]*websocket.Conn
	log   *logrus.Logger
}

// NewHub initializes an empty hub
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{conns: make(map[string][]*websocket.Conn), log: log}
}

// Register adds a connection for the user
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], conn)
	h.log.Infof("Websocket connected for user %s (%d active)", userID, len(h.conns[userID]))
}

// Unregister removes a connection for the user and closes it
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.conns[userID]
	for i, c := range conns {
		if c == conn {
			h.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	conn.Close()
}

// Push sends a JSON payload to every open connection of the user.
// Each write carries a deadline so a stalled client is dropped instead of
// blocking fan-out; writes stay under the lock since a connection must
// never see two concurrent writers.
func (h *Hub) Push(userID string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[userID]
	if len(conns) == 0 {
		return
	}

	alive := conns[:0]
	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(payload); err != nil {
			h.log.Warnf("Dropping websocket for user %s: %v", userID, err)
			c.Close()
			continue
		}
		alive = append(alive, c)
	}
	if len(alive) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = alive
	}
}

// ConnectionCount reports how many connections the user currently holds
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[userID])
}
