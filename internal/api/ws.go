package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gusto/internal/chat"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// wsConnection maintains one diner's live chat channel.
type wsConnection struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	server *Server
}

type wsChatRequest struct {
	Message      string   `json:"message"`
	SessionID    string   `json:"session_id"`
	RestaurantID uint     `json:"restaurant_id"`
	Allergies    []string `json:"allergies"`
}

// handleChatSocket upgrades the connection and starts the pumps.
func (s *Server) handleChatSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := &wsConnection{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump pumps messages from the WebSocket connection to the handler
func (c *wsConnection) readPump() {
	defer func() {
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the server to the WebSocket connection
func (c *wsConnection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage runs one chat turn per text frame. The completion call
// happens off the read loop so a slow backend does not stall pings.
func (c *wsConnection) handleMessage(message []byte) {
	var req wsChatRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.sendError("invalid chat request: " + err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	go func() {
		items, err := c.server.menu.ListItems(req.RestaurantID)
		if err != nil {
			c.sendError("failed to load menu: " + err.Error())
			return
		}

		start := time.Now()
		resp := c.server.assistant.Chat(context.Background(), chat.Request{
			Message:   req.Message,
			SessionID: req.SessionID,
			Menu:      items,
			Allergies: req.Allergies,
		})
		c.server.monitor.RecordChat(string(resp.Intent), time.Since(start), resp.Err != nil)

		c.sendJSON(chatResponse{
			Response:  resp.Response,
			Intent:    string(resp.Intent),
			SessionID: resp.SessionID,
			Error:     resp.Err != nil,
		})
	}()
}

func (c *wsConnection) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling chat response: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping message")
	}
}

func (c *wsConnection) sendError(message string) {
	c.sendJSON(map[string]string{"error": message})
}
