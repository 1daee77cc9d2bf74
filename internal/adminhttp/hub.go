package adminhttp

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/intelcon-group/gt06-gateway/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is a session lifecycle notification broadcast to every
// connected admin client.
type Event struct {
	Type      string `json:"type"`
	DeviceID  string `json:"device_id"`
	Timestamp string `json:"timestamp"`
}

// Hub fans session lifecycle events (C4 connect/disconnect) out to
// every /ws/events client. It is purely operational visibility, not
// part of the downstream wire protocol.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	log        *logging.Logger
}

// NewHub returns a Hub. Call Run in its own goroutine before serving
// /ws/events.
func NewHub(log *logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		log:        log,
	}
}

// Run drives the hub's register/unregister/broadcast loop. It never
// returns; there is no stop signal.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Info("admin ws client connected, total %d", len(h.clients))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.RLock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// SessionEvent satisfies session.EventSink: it turns a session
// lifecycle transition into a broadcast Event.
func (h *Hub) SessionEvent(deviceID, event string) {
	payload, err := json.Marshal(Event{
		Type:      event,
		DeviceID:  deviceID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("admin ws broadcast channel full, dropping %s event for device %s", event, deviceID)
	}
}

// HandleWebSocket upgrades the request and registers the connection
// with the hub until the client disconnects.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade admin ws connection: %v", err)
		return
	}

	h.register <- conn

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
