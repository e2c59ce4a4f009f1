package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/bodymeasure/internal/measure"
	"github.com/gorilla/websocket"
)

// Hub timing and buffering constants.
const (
	// writeWait is the time allowed to write one message to a client.
	writeWait = time.Second
	// sendBuffer is the number of messages queued per client before new
	// ones are dropped for that client.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FeedMessage is the JSON message sent to feed clients for each measured frame.
type FeedMessage struct {
	Frame        int                  `json:"frame"`
	Measurements measure.Measurements `json:"measurements"`
	Timestamp    int64                `json:"timestamp"`
}

// Hub broadcasts live measurements to WebSocket clients.
// Publish never blocks: a client that falls behind loses messages.
type Hub struct {
	clients map[*websocket.Conn]chan []byte
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Publish sends one frame's measurements to every connected client.
func (h *Hub) Publish(frame int, m measure.Measurements) {
	msg, err := json.Marshal(FeedMessage{
		Frame:        frame,
		Measurements: m,
		Timestamp:    time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("feed: marshal message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, sendBuffer)

	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	done := make(chan struct{})
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		close(done)
	}()

	go h.writeLoop(conn, send, done)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writeLoop drains one client's queue until the client disconnects.
func (h *Hub) writeLoop(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				return
			}
		}
	}
}
