package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufferSize = 64
)

// Hub fans view events out to every connected websocket client.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*client]bool
	upgrader  websocket.Upgrader
	onMessage func(msgType string)
	log       *zap.Logger
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub returns a hub. onMessage, when set, receives the "type" of every
// JSON text message a client sends.
func NewHub(log *zap.Logger, onMessage func(msgType string)) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: map[*client]bool{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		onMessage: onMessage,
		log:       log.Named("ws"),
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends v as JSON to every client. Clients whose buffer is full
// are dropped.
func (h *Hub) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.Error("broadcast marshal failed", zap.Error(err))
		return
	}
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range slow {
		h.log.Warn("dropping slow websocket client", zap.String("connectionID", c.id))
		h.unregister(c)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = map[*client]bool{}
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err), zap.String("remoteAddr", r.RemoteAddr))
		return
	}
	c := &client{id: uuid.NewString(), hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.log.Debug("websocket connected", zap.String("connectionID", c.id), zap.String("remoteAddr", r.RemoteAddr))

	go c.writePump()
	go c.readPump()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		typ, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Error("websocket read failed", zap.Error(err))
			}
			return
		}
		if typ != websocket.TextMessage || c.hub.onMessage == nil {
			continue
		}
		var in struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &in); err != nil {
			c.hub.log.Warn("ignoring malformed websocket message", zap.Error(err))
			continue
		}
		c.hub.onMessage(in.Type)
	}
}

func (c *client) writePump() {
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
				c.hub.log.Debug("websocket write failed", zap.Error(err))
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

// Run closes the hub when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Close()
}
