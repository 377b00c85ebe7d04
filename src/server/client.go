package server

import (
	"time"

	"seasonality-dashboard/src/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // commands are small
)

// -----------------------------------------------------------------------------

// Client is one connected renderer. send carries MCombinedView pushes and
// MCommandReply answers; the hub owns closing it.
type Client struct {
	hub    *DashboardServer
	conn   *websocket.Conn
	remote string
	send   chan interface{}
}

// -----------------------------------------------------------------------------

// reply queues a message for this client only. The hub closes send under
// stateMutex, so holding the read lock keeps the channel open while sending.
func (c *Client) reply(message interface{}) {
	c.hub.stateMutex.RLock()
	defer c.hub.stateMutex.RUnlock()

	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- message:
	default:
		c.hub.Logger.Warning("Client %s send buffer full, reply dropped", c.remote)
	}
}

// -----------------------------------------------------------------------------

// readPump feeds incoming commands to the hub until the connection drops.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
		c.hub.Logger.Info("Client %s disconnected", c.remote)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, command, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Info("Client %s read error: %v", c.remote, err)
			}
			return
		}
		c.hub.HandleClientMessage(c, command)
	}
}

// -----------------------------------------------------------------------------

// writePump drains send onto the connection and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "dashboard closed the connection")
				_ = c.conn.WriteMessage(websocket.CloseMessage, closing)
				return
			}

			for _, out := range c.coalesce(message) {
				if err := c.conn.WriteJSON(out); err != nil {
					c.hub.Logger.Info("Client %s write error: %v", c.remote, err)
					return
				}
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// coalesce takes first plus whatever is already queued and keeps only the
// newest view of each run of updates. Replies and the INITIAL view keep their
// place.
func (c *Client) coalesce(first interface{}) []interface{} {
	out := []interface{}{first}
	for {
		select {
		case next, ok := <-c.send:
			if !ok {
				return out
			}
			if _, isView := next.(models.MCombinedView); isView {
				if last, lastIsView := out[len(out)-1].(models.MCombinedView); lastIsView && last.Type != "INITIAL" {
					out[len(out)-1] = next
					continue
				}
			}
			out = append(out, next)
		default:
			return out
		}
	}
}
