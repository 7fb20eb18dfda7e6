// Package api exposes the ordering engine over HTTP: chat, menu search,
// cart operations, conversation history, translation, and the admin
// surface for menus and restaurants.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gusto/internal/cart"
	"gusto/internal/chat"
	"gusto/internal/database"
	"gusto/internal/monitoring"
	"gusto/internal/translate"
)

// Server wires the engine's components to gin routes.
type Server struct {
	Router *gin.Engine

	assistant  *chat.Assistant
	carts      *cart.Store
	menu       *database.MenuRepository
	users      *database.UserRepository
	translator *translate.Translator
	monitor    *monitoring.Monitor

	jwtSecret []byte
	tokenTTL  time.Duration
}

// Deps carries everything the server needs. All fields are required
// except Translator, which may be nil when translation is disabled.
type Deps struct {
	Assistant  *chat.Assistant
	Carts      *cart.Store
	Menu       *database.MenuRepository
	Users      *database.UserRepository
	Translator *translate.Translator
	Monitor    *monitoring.Monitor
	JWTSecret  []byte
	TokenTTL   time.Duration
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(deps Deps) *Server {
	s := &Server{
		Router:     gin.Default(),
		assistant:  deps.Assistant,
		carts:      deps.Carts,
		menu:       deps.Menu,
		users:      deps.Users,
		translator: deps.Translator,
		monitor:    deps.Monitor,
		jwtSecret:  deps.JWTSecret,
		tokenTTL:   deps.TokenTTL,
	}
	if s.tokenTTL == 0 {
		s.tokenTTL = 24 * time.Hour
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Gusto API is running"})
	})

	s.Router.GET("/ws/chat", s.handleChatSocket)

	v1 := s.Router.Group("/api/v1")
	{
		// Conversational ordering
		v1.POST("/chat", s.handleChat)
		v1.GET("/chat/history", s.handleGetHistory)
		v1.DELETE("/chat/history", s.handleClearHistory)

		// Menu retrieval
		v1.GET("/menu/items", s.handleListItems)
		v1.GET("/menu/items/:id", s.handleGetItem)
		v1.GET("/menu/search", s.handleSearch)
		v1.GET("/menu/safe", s.handleSafeItems)
		v1.GET("/menu/recommendations", s.handleRecommendations)

		// Cart
		v1.POST("/cart/items", s.handleAddToCart)
		v1.DELETE("/cart/items/:id", s.handleRemoveFromCart)
		v1.GET("/cart", s.handleGetCart)
		v1.DELETE("/cart", s.handleClearCart)
		v1.GET("/cart/summary", s.handleCartSummary)

		// Restaurants
		v1.GET("/restaurants", s.handleListRestaurants)

		// Translation
		v1.POST("/translate", s.handleTranslate)

		// Service metrics snapshot
		v1.GET("/metrics", s.handleMetrics)

		// Auth
		v1.POST("/auth/signup-admin", s.handleSignupAdmin)
		v1.POST("/auth/login", s.handleLogin)
		v1.GET("/auth/me", s.authRequired(), s.handleMe)

		// Admin menu management
		admin := v1.Group("/admin", s.authRequired())
		{
			admin.POST("/menu/items", s.handleCreateItem)
			admin.PUT("/menu/items/:id", s.handleUpdateItem)
			admin.DELETE("/menu/items/:id", s.handleDeleteItem)
			admin.POST("/restaurants", s.handleCreateRestaurant)
		}
	}
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}
