package websocket

import (
	"sync"
	"time"

	"learnwords/logger"
	"learnwords/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 32
)

// ProgressClient is one websocket connection subscribed to a user's progress.
// Events are queued on send and written by writePump, so publishers never
// wait on the network.
type ProgressClient struct {
	Conn    *websocket.Conn
	UserID  string
	send    chan models.ProgressEvent
	writeMu sync.Mutex
}

func NewProgressClient(conn *websocket.Conn, userID string) *ProgressClient {
	return &ProgressClient{
		Conn:   conn,
		UserID: userID,
		send:   make(chan models.ProgressEvent, sendBufferSize),
	}
}

// SafeWriteJSON serializes writes; gorilla connections allow one writer at a time
func (pc *ProgressClient) SafeWriteJSON(v interface{}) error {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	pc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return pc.Conn.WriteJSON(v)
}

func (pc *ProgressClient) writePing() error {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	return pc.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// writePump drains the send queue until the hub closes it or a write fails
func (pc *ProgressClient) writePump(hub *ProgressHub) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-pc.send:
			if !ok {
				return
			}
			if err := pc.SafeWriteJSON(event); err != nil {
				logger.Warn("dropping progress client", "user", pc.UserID, "error", err)
				hub.Unregister(pc)
				return
			}
		case <-ticker.C:
			if err := pc.writePing(); err != nil {
				hub.Unregister(pc)
				return
			}
		}
	}
}

// ProgressHub fans progress events out to the connections of the user they
// belong to.
type ProgressHub struct {
	mu      sync.RWMutex
	clients map[string]map[*ProgressClient]bool
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{clients: make(map[string]map[*ProgressClient]bool)}
}

// Connect greets the client and registers it. A client that cannot take the
// greeting is closed and never registered.
func (h *ProgressHub) Connect(client *ProgressClient) error {
	hello := map[string]string{
		"type":    "connected",
		"message": "Connected to progress updates",
		"userId":  client.UserID,
	}
	if err := client.SafeWriteJSON(hello); err != nil {
		client.Conn.Close()
		return err
	}
	h.Register(client)
	return nil
}

// Register subscribes the client and starts its writer
func (h *ProgressHub) Register(client *ProgressClient) {
	h.mu.Lock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*ProgressClient]bool)
	}
	h.clients[client.UserID][client] = true
	count := len(h.clients[client.UserID])
	h.mu.Unlock()

	go client.writePump(h)
	logger.Debug("progress client registered", "user", client.UserID, "connections", count)
}

// Unregister closes the client's queue and connection. Safe to call more than once.
func (h *ProgressHub) Unregister(client *ProgressClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[client.UserID]
	if !conns[client] {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.send)
	client.Conn.Close()
	logger.Debug("progress client unregistered", "user", client.UserID)
}

// Publish implements services.EventPublisher. It never blocks: a client whose
// queue is full is too slow to keep up and is disconnected.
func (h *ProgressHub) Publish(event models.ProgressEvent) {
	var slow []*ProgressClient

	h.mu.RLock()
	for client := range h.clients[event.UserID] {
		select {
		case client.send <- event:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("progress client too slow, disconnecting", "user", event.UserID)
		h.Unregister(client)
	}
}

// ConnectionCount returns the number of open connections for userID
func (h *ProgressHub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
