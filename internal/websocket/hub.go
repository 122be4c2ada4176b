package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/models"
)

type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound verdicts fanned out to every client
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Info().Str("client_id", client.id).Msg("Stream client connected")

			welcome := models.WebSocketMessage{
				Type: "connection",
				Data: map[string]string{
					"status":  "connected",
					"message": "Connected to verdict stream",
				},
			}
			if msg, err := json.Marshal(welcome); err == nil {
				client.send <- msg
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.mu.Unlock()
				log.Info().Str("client_id", client.id).Msg("Stream client disconnected")
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, close it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Announce fans a status message out to every client, bypassing filters.
func (h *Hub) Announce(msgType string, data interface{}) {
	message := models.WebSocketMessage{
		Type: msgType,
		Data: data,
	}

	if msg, err := json.Marshal(message); err == nil {
		h.broadcast <- msg
	}
}

// BroadcastVerdict sends a verdict to clients whose filters match it.
func (h *Hub) BroadcastVerdict(verdict *models.Verdict) {
	message := models.WebSocketMessage{
		Type: "verdict",
		Data: verdict,
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.MatchesFilters(verdict) && !client.isPaused {
			select {
			case client.send <- msgBytes:
			default:
				log.Warn().Str("client_id", client.id).Msg("Stream client send buffer full")
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
