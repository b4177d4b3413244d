package server

import (
	"encoding/json"
	"net/http"

	"stock-analyzer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			latest := s.latestReport
			s.stateMutex.Unlock()

			// Send the latest completed report on connect
			if latest != nil {
				client.send <- latest
			}

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case report := <-s.broadcast:
			s.stateMutex.Lock()
			s.latestReport = report

			for client := range s.clients {
				if !client.wants(report.Dataset) {
					continue
				}
				select {
				case client.send <- report:
					// Delivered
				default:
					// Client too slow, disconnect to keep the Hub from blocking
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

// UpdateLatestReport replaces the cached report served to new clients.
func (s *APIServer) UpdateLatestReport(report *models.MAnalysisReport) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	s.latestReport = report
}

// -----------------------------------------------------------------------------

// Broadcast queues a completed report for delivery to all clients.
func (s *APIServer) Broadcast(report *models.MAnalysisReport) {
	s.broadcast <- report
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

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan *models.MAnalysisReport, 256),
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	client.setDatasets(cmd.Datasets)

	// Answer immediately with the latest report the filter accepts
	s.stateMutex.RLock()
	latest := s.latestReport
	s.stateMutex.RUnlock()

	if latest == nil || !client.wants(latest.Dataset) {
		return
	}

	select {
	case client.send <- latest:
	default:
		// Client buffer full; the Hub loop prunes slow clients on the
		// next broadcast.
	}
}
