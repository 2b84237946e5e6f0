package hub

// The read pump decodes event frames from the browser and feeds them to the
// hub loop. The write pump drains the client's send channel back to the
// browser. Separating read/write avoids head-of-line blocking when a browser
// is slow.

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"friendchat/pkg/logger"
)

// Client represents a single websocket connection.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(id string, h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// ReadPump consumes frames from the connection until it drops, then hands the
// client back to the hub for teardown. Undecodable frames are dropped, never
// fatal: malformed client input must not take the server down.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			logger.Log.Debugf("Dropping undecodable frame from %s: %v", c.ID, err)
			continue
		}
		c.hub.inbound <- inboundEvent{connID: c.ID, env: env}
	}
}

// WritePump sends queued frames until the send channel is closed by the hub.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
