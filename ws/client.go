package ws

import (
	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/logger"

	"github.com/gorilla/websocket"
)

// Client is one connected portal visitor. The websocket is a push-only
// channel: all writes go through the REST API, so the read pump exists
// solely to notice disconnects.
type Client struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan events.ChangeEvent
	Manager *WebSocketManager
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "client_id", c.ID, "error", err)
			}
			break
		}
		// Inbound frames are ignored; mutations go through the REST API.
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for event := range c.Send {
		if err := c.Conn.WriteJSON(event); err != nil {
			logger.Warn("ws write error", "client_id", c.ID, "error", err)
			break
		}
	}
}
