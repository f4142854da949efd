package events

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub streams messages to connected websocket clients. A client may pass
// a comma separated list of event type prefixes in the "types" query
// parameter to receive only those.
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	logger  log.Logger
	closed  bool
}

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	types  []string
	closed sync.Once
}

// NewHub returns a hub without clients.
func NewHub(logger log.Logger) *Hub {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		logger:  logger.With("module", "ws"),
	}
}

func (*Hub) Name() string { return "websocket" }

// Send broadcasts messages to all interested clients. A client whose
// buffer is full misses the message.
func (h *Hub) Send(ctx context.Context, msgs []Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, m := range msgs {
		raw, err := m.Marshal()
		if err != nil {
			return err
		}
		for c := range h.clients {
			if !c.wants(m.Type) {
				continue
			}
			select {
			case c.send <- raw:
			default:
				h.logger.Error("dropping message for slow client", "type", m.Type)
			}
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket connection and registers
// the client until the connection is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", "err", err)
		return
	}
	c := &wsClient{
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		types: splitTypes(r.URL.Query().Get("types")),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client connected", "clients", h.Clients())

	go c.writePump()
	c.readPump()

	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
	h.logger.Debug("client disconnected", "clients", h.Clients())
}

// Close disconnects all clients and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

func splitTypes(raw string) []string {
	var types []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func (c *wsClient) wants(typ string) bool {
	if len(c.types) == 0 {
		return true
	}
	for _, prefix := range c.types {
		if strings.HasPrefix(typ, prefix) {
			return true
		}
	}
	return false
}

func (c *wsClient) close() {
	c.closed.Do(func() { close(c.send) })
}

// readPump only consumes control frames, clients are not expected to
// send anything.
func (c *wsClient) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
