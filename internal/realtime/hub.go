// Package realtime pushes floor alerts and live query snapshots to
// WebSocket clients.
package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"floor-backend/internal/metrics"
	"floor-backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// alerts replayed to a client when it connects
	recentAlerts = 50
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are checked by the CORS layer and the stream token
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan models.Alert
}

// AlertHub fans floor alerts out to every connected client
type AlertHub struct {
	broadcast chan models.Alert

	mu      sync.Mutex
	clients map[*client]bool
	recent  []models.Alert

	log *zap.Logger
}

func NewAlertHub(log *zap.Logger) *AlertHub {
	return &AlertHub{
		broadcast: make(chan models.Alert, 64),
		clients:   make(map[*client]bool),
		log:       log.Named("alerts"),
	}
}

// Publish queues an alert for broadcast. It never blocks the caller; when
// the queue is full the alert is dropped.
func (h *AlertHub) Publish(alert models.Alert) {
	select {
	case h.broadcast <- alert:
	default:
		h.log.Warn("alert queue full, dropping alert", zap.String("record_id", alert.RecordID))
	}
}

// Run delivers queued alerts until ctx is done
func (h *AlertHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case alert := <-h.broadcast:
			h.deliver(alert)
		}
	}
}

func (h *AlertHub) deliver(alert models.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.recent = append(h.recent, alert)
	if len(h.recent) > recentAlerts {
		h.recent = h.recent[len(h.recent)-recentAlerts:]
	}
	for c := range h.clients {
		select {
		case c.send <- alert:
		default:
			// slow client
			h.drop(c)
		}
	}
}

// Recent returns the last alerts, oldest first
func (h *AlertHub) Recent() []models.Alert {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.Alert(nil), h.recent...)
}

func (h *AlertHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// drop must be called with h.mu held
func (h *AlertHub) drop(c *client) {
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
		metrics.LiveSubscribers.WithLabelValues("alerts").Dec()
	}
}

func (h *AlertHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
}

// ServeWS upgrades the request and streams alerts to the client
func (h *AlertHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan models.Alert, recentAlerts+16)}

	h.mu.Lock()
	for _, a := range h.recent {
		c.send <- a
	}
	h.clients[c] = true
	h.mu.Unlock()
	metrics.LiveSubscribers.WithLabelValues("alerts").Inc()

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client messages and notices when the socket closes
func (h *AlertHub) readPump(c *client) {
	defer func() {
		h.mu.Lock()
		h.drop(c)
		h.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
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

func (h *AlertHub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case alert, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(alert); err != nil {
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
