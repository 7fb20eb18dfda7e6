package models

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
)

// MenuItem represents a dish on the menu as seen by the ordering engine.
// It is a read-only snapshot: the chat, search, and cart layers never
// mutate it.
type MenuItem struct {
	ID           uint     `json:"id"`
	RestaurantID uint     `json:"restaurant_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	Allergens    []string `json:"allergens"`
	Ingredients  string   `json:"ingredients,omitempty"`
	IsAvailable  bool     `json:"is_available"`
}

// MenuCategory represents the category of a menu item
type MenuCategory string

const (
	MenuCategoryMains    MenuCategory = "Mains"
	MenuCategorySides    MenuCategory = "Sides"
	MenuCategoryDesserts MenuCategory = "Desserts"
	MenuCategoryDrinks   MenuCategory = "Drinks"
)

// Allergen represents a food allergen tag
type Allergen string

const (
	AllergenDairy     Allergen = "dairy"
	AllergenEggs      Allergen = "eggs"
	AllergenFish      Allergen = "fish"
	AllergenShellfish Allergen = "shellfish"
	AllergenTreeNuts  Allergen = "tree_nuts"
	AllergenPeanuts   Allergen = "peanuts"
	AllergenGluten    Allergen = "gluten"
	AllergenSoy       Allergen = "soy"
	AllergenSesame    Allergen = "sesame"
)

// MenuItemRecord is the persisted form of a menu item. Allergens are
// stored as a comma-separated list, e.g. "peanuts,dairy,gluten".
type MenuItemRecord struct {
	gorm.Model
	RestaurantID uint    `gorm:"not null"`
	Name         string  `gorm:"size:100;not null"`
	Description  string  `gorm:"size:255"`
	Price        float64 `gorm:"not null"`
	Category     string  `gorm:"size:50;not null"`
	Allergens    string  `gorm:"size:255"`
	Ingredients  string  `gorm:"size:500"`
	IsAvailable  bool
}

// TableName keeps the table name stable regardless of struct renames.
func (MenuItemRecord) TableName() string {
	return "menu_items"
}

// ToMenuItem converts a stored record into the domain shape used by the
// retrieval index and the dialogue manager.
func (r *MenuItemRecord) ToMenuItem() MenuItem {
	return MenuItem{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Category:     r.Category,
		Allergens:    SplitAllergens(r.Allergens),
		Ingredients:  r.Ingredients,
		IsAvailable:  r.IsAvailable,
	}
}

// SplitAllergens parses a comma-separated allergen list, dropping empty
// entries and surrounding whitespace.
func SplitAllergens(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinAllergens renders an allergen list back into its stored form.
func JoinAllergens(allergens []string) string {
	return strings.Join(allergens, ",")
}

// ValidateMenuItem validates a menu item before it is persisted.
func ValidateMenuItem(item *MenuItemRecord) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("menu item price must not be negative")
	}
	if strings.TrimSpace(item.Category) == "" {
		return fmt.Errorf("menu item category is required")
	}
	if item.RestaurantID == 0 {
		return fmt.Errorf("menu item must belong to a restaurant")
	}
	return nil
}

// HasAllergen checks if the item carries a specific allergen tag.
// The comparison is case-insensitive.
func (mi *MenuItem) HasAllergen(allergen string) bool {
	for _, a := range mi.Allergens {
		if strings.EqualFold(a, allergen) {
			return true
		}
	}
	return false
}

// IsInCategory checks if the item belongs to a specific category.
// The comparison is case-insensitive.
func (mi *MenuItem) IsInCategory(category string) bool {
	return strings.EqualFold(mi.Category, category)
}

// SearchableText returns the lower-cased text the retrieval index
// matches keywords against.
func (mi *MenuItem) SearchableText() string {
	return strings.ToLower(mi.Name + " " + mi.Description + " " + mi.Ingredients)
}
