// Package realtime pushes notifications to connected websocket clients. Clients are grouped
// in rooms keyed by username so that every open session of a user receives the message.
package realtime

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"invitesmanager/internal/domain"
)

const (
	clientBuffer = 16
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
)

// NotificationTypeJoined is the first message a client receives after connecting.
const NotificationTypeJoined = "joined"

// Client is one websocket session in a room.
type Client struct {
	ID       string
	Username string
	Events   chan domain.Notification
	conn     *websocket.Conn
}

func newClient(username string, conn *websocket.Conn) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Username: username,
		Events:   make(chan domain.Notification, clientBuffer),
		conn:     conn,
	}
}

// enqueue never blocks; a slow client drops the message.
func (c *Client) enqueue(n domain.Notification) bool {
	select {
	case c.Events <- n:
		return true
	default:
		return false
	}
}

// Hub keeps rooms of clients and fans out notifications.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[string]*Client
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub returns an empty hub. allowedOrigins empty means any origin may connect.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		rooms:  make(map[string]map[string]*Client),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.Username]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[c.Username] = room
	}
	room[c.ID] = c
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.Username]
	if !ok {
		return
	}
	if _, ok := room[c.ID]; !ok {
		return
	}
	delete(room, c.ID)
	close(c.Events)
	if len(room) == 0 {
		delete(h.rooms, c.Username)
	}
}

// RoomSize returns the number of sessions connected for username.
func (h *Hub) RoomSize(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[username])
}

// Publish delivers n to every session of username without blocking.
func (h *Hub) Publish(username string, n domain.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[username] {
		if !c.enqueue(n) {
			h.logger.Warn("realtime client is slow, message dropped", "username", username, "client_id", c.ID, "type", n.Type)
		}
	}
}

// Serve upgrades the request and keeps the session in username's room until it disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, username string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "err", err)
		return
	}
	c := newClient(username, conn)
	h.join(c)
	c.enqueue(domain.Notification{Type: NotificationTypeJoined, Payload: map[string]string{"clientId": c.ID}})

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *Client) {
	defer func() {
		h.leave(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case n, ok := <-c.Events:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
