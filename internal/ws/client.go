package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// PostFunc persists an inbound chat message and triggers its broadcast. The
// handler wires it to the message service so the socket path and the HTTP
// path share one write pipeline.
type PostFunc func(ctx context.Context, content string) error

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	room      string
	accountID string
	send      chan []byte
	post      PostFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, room string, accountID string, post PostFunc) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		room:      room,
		accountID: accountID,
		send:      make(chan []byte, 32),
		post:      post,
	}
}

// Start registers the client with the hub and runs the pumps. Returns
// immediately; the connection lives until either pump exits. If the hub has
// already stopped, the connection is closed without starting.
func (c *Client) Start(ctx context.Context) {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		c.conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(ctx)
}

type inboundMessage struct {
	Content string `json:"content"`
}

// readPump consumes client frames until the connection dies, then
// deregisters from the room. Each frame is posted through the shared write
// pipeline; a failed post is reported back on the socket but does not end
// the stream.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.deregister()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Str("room", c.room).Msg("websocket read error")
			}
			return
		}

		var inbound inboundMessage
		if err := json.Unmarshal(raw, &inbound); err != nil || inbound.Content == "" {
			c.sendError("invalid message")
			continue
		}

		if err := c.post(ctx, inbound.Content); err != nil {
			c.hub.log.Warn().Err(err).Str("room", c.room).Msg("post from socket failed")
			c.sendError("message rejected")
		}
	}
}

// deregister leaves the room without blocking when the hub has already shut
// down and drained its channels.
func (c *Client) deregister() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

func (c *Client) sendError(msg string) {
	payload, _ := json.Marshal(map[string]string{"error": msg})
	select {
	case c.send <- payload:
	default:
	}
}

// writePump pushes hub events to the peer and keeps the connection alive
// with pings. Exits when the hub closes the send channel or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
