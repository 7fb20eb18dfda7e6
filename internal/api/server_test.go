package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gusto/internal/api"
	"gusto/internal/cart"
	"gusto/internal/chat"
	"gusto/internal/database"
	"gusto/internal/models"
	"gusto/internal/monitoring"
)

type stubCompleter struct {
	reply string
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T, completer chat.Completer) *api.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewMenuRepository(db)
	require.NoError(t, repo.CreateRestaurant(&models.Restaurant{Name: "Gusto Test Kitchen", IsActive: true}))
	seed := []models.MenuItemRecord{
		{RestaurantID: 1, Name: "Spicy Chicken", Description: "Grilled with chili", Price: 14.50, Category: "Mains", Allergens: "dairy", IsAvailable: true},
		{RestaurantID: 1, Name: "Garden Salad", Description: "Fresh greens", Price: 8.00, Category: "Sides", IsAvailable: true},
	}
	for i := range seed {
		require.NoError(t, repo.CreateItem(&seed[i]))
	}

	return api.NewServer(api.Deps{
		Assistant: chat.NewAssistant(completer),
		Carts:     cart.NewStore(),
		Menu:      repo,
		Users:     database.NewUserRepository(db),
		Monitor:   monitoring.NewMonitor(prometheus.NewRegistry()),
		JWTSecret: []byte("test-secret"),
		TokenTTL:  time.Hour,
	})
}

func doJSON(t *testing.T, server *api.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

func TestChatEndpoint(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "Try the Garden Salad! 🥗"})

	w := doJSON(t, server, "POST", "/api/v1/chat", gin.H{
		"message":   "what's fresh today?",
		"allergies": []string{"dairy"},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Try the Garden Salad! 🥗", resp["response"])
	assert.NotEmpty(t, resp["session_id"], "server must generate a session id when the client omits one")
	assert.Equal(t, false, resp["error"])
	assert.Contains(t, resp, "intent")
}

func TestChatEndpointDisabled(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, "POST", "/api/v1/chat", gin.H{"message": "hello"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["error"])
}

func TestHistoryEndpoints(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "Hello!"})

	w := doJSON(t, server, "GET", "/api/v1/chat/history?session_id=ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	doJSON(t, server, "POST", "/api/v1/chat", gin.H{"message": "hi", "session_id": "s1"})

	w = doJSON(t, server, "GET", "/api/v1/chat/history?session_id=s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		History []chat.Turn `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.History, 1)

	// Clearing is idempotent.
	w = doJSON(t, server, "DELETE", "/api/v1/chat/history?session_id=s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, server, "DELETE", "/api/v1/chat/history?session_id=s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartFlow(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, "GET", "/api/v1/cart?session_id=s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, server, "POST", "/api/v1/cart/items", gin.H{
		"session_id": "s1", "item_id": 1, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, "POST", "/api/v1/cart/items", gin.H{
		"session_id": "s1", "item_id": 1, "quantity": 3, "note": "extra hot",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var current cart.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	require.Len(t, current.Lines, 1, "repeat adds must merge into one line")
	assert.Equal(t, 5, current.Lines[0].Quantity)
	assert.InDelta(t, 14.50*5, current.Total, 0.001)

	w = doJSON(t, server, "GET", "/api/v1/cart/summary?session_id=s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "5x Spicy Chicken")
	assert.Contains(t, w.Body.String(), "72.50")

	w = doJSON(t, server, "DELETE", "/api/v1/cart/items/1?session_id=s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, "DELETE", "/api/v1/cart?session_id=s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartValidation(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, "POST", "/api/v1/cart/items", gin.H{
		"session_id": "s1", "item_id": 1, "quantity": -2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, server, "POST", "/api/v1/cart/items", gin.H{
		"session_id": "s1", "item_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, "GET", "/api/v1/menu/search?keywords=spicy&allergies=dairy", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []models.MenuItem `json:"results"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count, "the only spicy item contains dairy and must be vetoed")

	w = doJSON(t, server, "GET", "/api/v1/menu/search?keywords=spicy", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Spicy Chicken", resp.Results[0].Name)
}

func TestSafeItemsEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, "GET", "/api/v1/menu/safe?allergies=dairy", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []models.MenuItem `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Garden Salad", resp.Results[0].Name)
}

func TestAdminAuthFlow(t *testing.T) {
	server := newTestServer(t, nil)

	item := gin.H{"restaurant_id": 1, "name": "Tiramisu", "price": 7.5, "category": "Desserts"}

	w := doJSON(t, server, "POST", "/api/v1/admin/menu/items", item)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, server, "POST", "/api/v1/auth/signup-admin", gin.H{
		"email": "admin@gusto.dev", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, "POST", "/api/v1/auth/login", gin.H{
		"email": "admin@gusto.dev", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(item))
	req, _ := http.NewRequest("POST", "/api/v1/admin/menu/items", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)

	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	w = doJSON(t, server, "GET", "/api/v1/menu/items", nil)
	var items []models.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 3)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	w := doJSON(t, server, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
