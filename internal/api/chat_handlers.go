package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gusto/internal/chat"
)

type chatRequest struct {
	Message      string   `json:"message" binding:"required"`
	SessionID    string   `json:"session_id"`
	RestaurantID uint     `json:"restaurant_id"`
	Allergies    []string `json:"allergies"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Intent    string `json:"intent,omitempty"`
	SessionID string `json:"session_id"`
	Error     bool   `json:"error"`
}

// handleChat runs one conversational turn. A missing session id is
// generated here so the engine always sees an opaque identifier.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	items, err := s.menu.ListItems(req.RestaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	resp := s.assistant.Chat(c.Request.Context(), chat.Request{
		Message:   req.Message,
		SessionID: req.SessionID,
		Menu:      items,
		Allergies: req.Allergies,
	})
	s.monitor.RecordChat(string(resp.Intent), time.Since(start), resp.Err != nil)

	if errors.Is(resp.Err, chat.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, chatResponse{
			Response:  resp.Response,
			SessionID: resp.SessionID,
			Error:     true,
		})
		return
	}

	// Backend failures still answer 200 with the apology text; the
	// error flag tells the client the turn was not recorded.
	c.JSON(http.StatusOK, chatResponse{
		Response:  resp.Response,
		Intent:    string(resp.Intent),
		SessionID: resp.SessionID,
		Error:     resp.Err != nil,
	})
}

// handleGetHistory returns the session's turns. An unknown session is
// a 404, distinct from a known session with no turns.
func (s *Server) handleGetHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	turns, ok := s.assistant.History(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if turns == nil {
		turns = []chat.Turn{}
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "history": turns})
}

// handleClearHistory drops the session's memory. Idempotent.
func (s *Server) handleClearHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	s.assistant.ClearConversation(sessionID)
	c.JSON(http.StatusOK, gin.H{"message": "Conversation cleared"})
}
