package push

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// Event is a real-time notification pushed to connected back-office
// clients.
type Event struct {
	Type          string      `json:"type"`
	DeclarationID string      `json:"declaration_id,omitempty"`
	Title         string      `json:"title"`
	Body          string      `json:"body,omitempty"`
	Payload       interface{} `json:"payload,omitempty"`
}

type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub manages all active WebSocket connections.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64][]*connection // userID -> connections (multiple tabs)
}

func NewHub() *Hub {
	return &Hub{connections: make(map[int64][]*connection)}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c.userID] = append(h.connections[c.userID], c)
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.connections[c.userID]
	for i, existing := range conns {
		if existing == c {
			h.connections[c.userID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(h.connections[c.userID]) == 0 {
		delete(h.connections, c.userID)
	}
}

// Broadcast pushes an event to every connected client. Slow clients
// are skipped rather than blocking the dispatcher.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("push marshal_failed type=%s error=%q", ev.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.connections {
		for _, c := range conns {
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

// SendToUser pushes an event to one user's connections. Returns false
// when the user has no open connection.
func (h *Hub) SendToUser(userID int64, ev Event) bool {
	data, err := json.Marshal(ev)
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := h.connections[userID]
	delivered := false
	for _, c := range conns {
		select {
		case c.send <- data:
			delivered = true
		default:
		}
	}
	return delivered
}

// ConnectedCount returns the number of distinct connected users.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Serve upgrades the request and pumps events until the client goes
// away. userID comes from the authenticated session.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int64) error {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		userID: userID,
		conn:   ws,
		send:   make(chan []byte, 16),
	}
	h.register(c)

	go c.writePump()
	go c.readPump(h)
	return nil
}

func (c *connection) writePump() {
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

func (c *connection) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients only listen; anything received is discarded.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
