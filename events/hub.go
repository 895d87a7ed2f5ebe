package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait   = 10 * time.Second
	clientQueue = 16
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes JSON messages to every connected websocket client.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			// the route is behind the admin guard
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.Named("ws"),
	}
}

// ServeHTTP upgrades the request and keeps the client registered until the
// connection drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, clientQueue)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.writeLoop(c)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
	conn.Close()
}

func (h *Hub) writeLoop(c *wsClient) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			h.drop(c)
			break
		}
	}
	// drain so drop never blocks on a full queue
	for range c.send {
	}
}

func (h *Hub) drop(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast sends v as JSON to every client. Clients that cannot keep up are
// disconnected.
func (h *Hub) Broadcast(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
			c.conn.Close()
		}
	}
	return nil
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run broadcasts every catalog change until changes closes or ctx is done.
func (h *Hub) Run(ctx context.Context, changes <-chan CatalogChange) {
	Pump(ctx, changes, func(_ context.Context, c CatalogChange) error {
		return h.Broadcast(c)
	}, func(_ CatalogChange, err error) {
		h.log.Warn("broadcast failed", zap.Error(err))
	})
}

// Close disconnects every client and waits for their writers to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
	h.mu.Unlock()
	h.wg.Wait()
}
