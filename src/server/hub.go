package server

import (
	"encoding/json"
	"net/http"

	"seasonality-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case <-s.quit:
			s.stateMutex.Lock()
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()
			return

		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			initial := s.latestState
			s.stateMutex.Unlock()

			initial.Type = "INITIAL"
			client.send <- initial

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case <-s.broadcast:
			// Always send the newest view, so an update skipped by a full
			// queue is covered by any queued one.
			s.stateMutex.Lock()
			view := s.latestState
			for client := range s.clients {
				select {
				case client.send <- view:
				default:
					// Slow consumer, drop it rather than block the hub
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.stateMutex.Unlock()
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast caches the view and queues a send for every client. It never
// blocks: a full queue already holds a pending send, which delivers this view.
func (s *DashboardServer) Broadcast(view models.MCombinedView) {
	view.Type = "UPDATE"

	s.stateMutex.Lock()
	s.latestState = view
	s.stateMutex.Unlock()

	select {
	case s.broadcast <- view:
	default:
		s.Logger.Debug("Broadcast queue full, generation %d coalesced", view.Generation)
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:    s,
		conn:   conn,
		remote: conn.RemoteAddr().String(),
		send:   make(chan interface{}, 256),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage runs one command against the controller. Results reach
// every client through the next broadcast; only failures and explicit view
// requests are answered directly.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		client.reply(models.MCommandReply{Type: "ERROR", Error: "malformed command: " + err.Error()})
		return
	}

	var err error
	switch cmd.Command {
	case models.CommandChooseAsset:
		_, err = s.Controller.ChooseAsset(cmd.Ticker)
	case models.CommandClickYear:
		_, err = s.Controller.ClickYear(cmd.Year)
	case models.CommandTimeRange:
		_, err = s.Controller.SetTimeRange(cmd.TimeRange)
	case models.CommandSubmit:
		_, err = s.Controller.Submit()
	case models.CommandView:
		view := s.Controller.View()
		view.Type = "INITIAL"
		client.reply(view)
		return
	default:
		client.reply(models.MCommandReply{Type: "ERROR", Command: cmd.Command, Error: "unknown command"})
		return
	}

	if err != nil {
		s.Logger.Debug("Command %s rejected: %v", cmd.Command, err)
		client.reply(models.MCommandReply{Type: "ERROR", Command: cmd.Command, Error: err.Error()})
	}
}
