package ws

import (
	"sync"

	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/logger"
)

// WebSocketManager fans row-level change events out to every connected
// portal client. Every visitor sees every change; there are no rooms.
type WebSocketManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan events.ChangeEvent
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan events.ChangeEvent, 64),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			if existing, ok := manager.clients[client.ID]; ok {
				// A reconnect replaces the stale connection.
				close(existing.Send)
			}
			manager.clients[client.ID] = client
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Info("ws client registered", "client_id", client.ID, "total", total)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if current, ok := manager.clients[client.ID]; ok && current == client {
				close(client.Send)
				delete(manager.clients, client.ID)
			}
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Info("ws client unregistered", "client_id", client.ID, "total", total)

		case event := <-manager.broadcast:
			manager.broadcastEvent(event)
		}
	}
}

// Publish implements events.Publisher. Delivery is best effort: a full
// broadcast queue drops the event rather than blocking a mutation.
func (manager *WebSocketManager) Publish(event events.ChangeEvent) {
	select {
	case manager.broadcast <- event:
	default:
		logger.Warn("ws broadcast queue full, dropping event", "table", event.Table, "op", event.Op)
	}
}

func (manager *WebSocketManager) broadcastEvent(event events.ChangeEvent) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for clientID, client := range manager.clients {
		select {
		case client.Send <- event:
		default:
			// Send channel full, drop the slow client.
			go func(c *Client) {
				manager.unregister <- c
			}(client)
			logger.Warn("ws client dropped, send channel full", "client_id", clientID)
		}
	}
}

func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

func (manager *WebSocketManager) IsClientConnected(clientID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[clientID]
	return exists
}
