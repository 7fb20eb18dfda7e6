package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gusto/internal/database"
	"gusto/internal/menu"
	"gusto/internal/models"
)

func (s *Server) handleListItems(c *gin.Context) {
	restaurantID := parseUintQuery(c, "restaurant_id")
	items, err := s.menu.ListItems(restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleGetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := s.menu.GetItem(uint(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// handleSearch ranks items against free-text keywords, then narrows by
// category and price ceiling when supplied. Allergens are vetoed before
// any other signal.
func (s *Server) handleSearch(c *gin.Context) {
	keywords := strings.Fields(strings.ToLower(c.Query("keywords")))
	allergies := splitListParam(c.Query("allergies"))
	category := c.Query("category")
	maxPrice := parseFloatQuery(c, "max_price")

	items, err := s.menu.ListItems(parseUintQuery(c, "restaurant_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	index := menu.NewIndex(items)

	var results []menu.ScoredItem
	if len(keywords) > 0 {
		results = index.SearchByKeywords(keywords, allergies)
	} else {
		for _, item := range index.SafeItems(allergies) {
			results = append(results, menu.ScoredItem{MenuItem: item})
		}
	}

	if category != "" {
		results = filterScored(results, func(item models.MenuItem) bool {
			return item.IsInCategory(category)
		})
	}
	if maxPrice > 0 {
		results = filterScored(results, func(item models.MenuItem) bool {
			return item.Price <= maxPrice
		})
	}

	if results == nil {
		results = []menu.ScoredItem{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (s *Server) handleSafeItems(c *gin.Context) {
	allergies := splitListParam(c.Query("allergies"))
	if len(allergies) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "allergies is required"})
		return
	}

	items, err := s.menu.ListItems(parseUintQuery(c, "restaurant_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	safe := menu.NewIndex(items).SafeItems(allergies)
	if safe == nil {
		safe = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{"results": safe, "count": len(safe)})
}

func (s *Server) handleRecommendations(c *gin.Context) {
	prefs := menu.Preferences{
		Category:   c.Query("category"),
		MaxPrice:   parseFloatQuery(c, "max_price"),
		Spicy:      c.Query("spicy") == "true",
		Vegetarian: c.Query("vegetarian") == "true",
	}
	allergies := splitListParam(c.Query("allergies"))

	items, err := s.menu.ListItems(parseUintQuery(c, "restaurant_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recs := menu.NewIndex(items).Recommend(prefs, allergies)
	if recs == nil {
		recs = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{"results": recs, "count": len(recs)})
}

func (s *Server) handleListRestaurants(c *gin.Context) {
	restaurants, err := s.menu.ListRestaurants()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

// Admin handlers

type menuItemPayload struct {
	RestaurantID uint     `json:"restaurant_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	Allergens    []string `json:"allergens"`
	Ingredients  string   `json:"ingredients"`
	IsAvailable  *bool    `json:"is_available"`
}

func (p *menuItemPayload) toRecord(record *models.MenuItemRecord) {
	record.RestaurantID = p.RestaurantID
	record.Name = p.Name
	record.Description = p.Description
	record.Price = p.Price
	record.Category = p.Category
	record.Allergens = models.JoinAllergens(p.Allergens)
	record.Ingredients = p.Ingredients
	if p.IsAvailable != nil {
		record.IsAvailable = *p.IsAvailable
	} else {
		record.IsAvailable = true
	}
}

func (s *Server) handleCreateItem(c *gin.Context) {
	var payload menuItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record models.MenuItemRecord
	payload.toRecord(&record)
	if err := s.menu.CreateItem(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, record.ToMenuItem())
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	record, err := s.menu.GetItemRecord(uint(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var payload menuItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.toRecord(record)

	if err := s.menu.UpdateItem(record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record.ToMenuItem())
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := s.menu.DeleteItem(uint(id)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (s *Server) handleCreateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := c.ShouldBindJSON(&restaurant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.menu.CreateRestaurant(&restaurant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, restaurant)
}

// Query parsing helpers

func parseUintQuery(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func parseFloatQuery(c *gin.Context, name string) float64 {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		return 0
	}
	return v
}

func splitListParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func filterScored(items []menu.ScoredItem, pred func(models.MenuItem) bool) []menu.ScoredItem {
	kept := items[:0]
	for _, item := range items {
		if pred(item.MenuItem) {
			kept = append(kept, item)
		}
	}
	return kept
}
