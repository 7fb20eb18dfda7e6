package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gusto/internal/cart"
	"gusto/internal/database"
)

type addToCartRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	ItemID    uint   `json:"item_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
	Note      string `json:"note"`
}

// handleAddToCart looks the item up so the cart stores a price snapshot,
// then merges it into the session's cart. Quantity defaults to 1 when
// omitted; an explicit non-positive quantity is rejected.
func (s *Server) handleAddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := s.menu.GetItem(req.ItemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	current, err := s.carts.AddItem(req.SessionID, *item, quantity, req.Note)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.monitor.RecordCartOp("add")
	c.JSON(http.StatusOK, current)
}

func (s *Server) handleRemoveFromCart(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	current, err := s.carts.RemoveItem(sessionID, uint(itemID))
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No order found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.monitor.RecordCartOp("remove")
	c.JSON(http.StatusOK, current)
}

// handleGetCart answers 404 for a session with no cart, which is
// distinct from an existing cart with no lines.
func (s *Server) handleGetCart(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	current, ok := s.carts.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No order found"})
		return
	}
	c.JSON(http.StatusOK, current)
}

func (s *Server) handleClearCart(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	s.carts.Clear(sessionID)
	s.monitor.RecordCartOp("clear")
	c.JSON(http.StatusOK, gin.H{"message": "Order cleared"})
}

func (s *Server) handleCartSummary(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": s.carts.Summary(sessionID)})
}
