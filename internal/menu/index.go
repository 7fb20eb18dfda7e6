// Package menu implements the retrieval layer of the ordering engine:
// keyword ranking, category/price search, allergen filtering, and
// recommendation over a live menu snapshot. It is used both for chat
// grounding and for stand-alone menu search.
package menu

import (
	"fmt"
	"sort"
	"strings"

	"gusto/internal/models"
)

// Index ranks and filters a menu snapshot. It is built per request from
// the caller-supplied item list and holds no state beyond it.
type Index struct {
	items []models.MenuItem
}

// NewIndex creates an index over the given items. The slice is not
// copied; callers must not mutate it while the index is in use.
func NewIndex(items []models.MenuItem) *Index {
	return &Index{items: items}
}

// ScoredItem is a menu item annotated with its keyword relevance.
type ScoredItem struct {
	models.MenuItem
	Relevance int `json:"relevance_score"`
}

// Preferences drives Recommend. Zero values mean "no constraint".
type Preferences struct {
	Category   string  `json:"category,omitempty"`
	MaxPrice   float64 `json:"max_price,omitempty"`
	Spicy      bool    `json:"spicy,omitempty"`
	Vegetarian bool    `json:"vegetarian,omitempty"`
}

// meatKeywords is the simple vegetarian exclusion list: any item whose
// name or description mentions one of these is filtered out.
var meatKeywords = []string{"chicken", "lamb", "beef", "fish", "meat"}

// SearchByKeywords returns items matching at least one keyword, ranked
// by how many keywords appear in the item's name, description, and
// ingredient text. Items carrying an excluded allergen never appear.
// Ties keep the original menu order.
func (ix *Index) SearchByKeywords(keywords, excludeAllergens []string) []ScoredItem {
	var results []ScoredItem
	for _, item := range ix.items {
		if hasExcludedAllergen(item, excludeAllergens) {
			continue
		}
		text := item.SearchableText()
		matches := 0
		for _, kw := range keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				matches++
			}
		}
		if matches > 0 {
			results = append(results, ScoredItem{MenuItem: item, Relevance: matches})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results
}

// SearchByCategory returns allergen-safe items in the given category.
// The category comparison is case-insensitive and results are unranked.
func (ix *Index) SearchByCategory(category string, excludeAllergens []string) []models.MenuItem {
	var results []models.MenuItem
	for _, item := range ix.items {
		if hasExcludedAllergen(item, excludeAllergens) {
			continue
		}
		if item.IsInCategory(category) {
			results = append(results, item)
		}
	}
	return results
}

// SearchByPriceRange returns allergen-safe items priced within
// [minPrice, maxPrice], cheapest first.
func (ix *Index) SearchByPriceRange(minPrice, maxPrice float64, excludeAllergens []string) []models.MenuItem {
	var results []models.MenuItem
	for _, item := range ix.items {
		if hasExcludedAllergen(item, excludeAllergens) {
			continue
		}
		if item.Price >= minPrice && item.Price <= maxPrice {
			results = append(results, item)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price < results[j].Price
	})
	return results
}

// SafeItems returns every item with zero overlap with the excluded
// allergen set.
func (ix *Index) SafeItems(excludeAllergens []string) []models.MenuItem {
	var results []models.MenuItem
	for _, item := range ix.items {
		if !hasExcludedAllergen(item, excludeAllergens) {
			results = append(results, item)
		}
	}
	return results
}

// maxRecommendations bounds the Recommend result set.
const maxRecommendations = 5

// Recommend applies the preference filters in a fixed order — allergens,
// category, max price, spicy, vegetarian — then truncates to five items.
// The filter order is part of the contract: later filters only see what
// earlier ones kept.
func (ix *Index) Recommend(prefs Preferences, excludeAllergens []string) []models.MenuItem {
	var results []models.MenuItem
	for _, item := range ix.items {
		if !hasExcludedAllergen(item, excludeAllergens) {
			results = append(results, item)
		}
	}

	if prefs.Category != "" {
		results = keep(results, func(item models.MenuItem) bool {
			return item.IsInCategory(prefs.Category)
		})
	}
	if prefs.MaxPrice > 0 {
		results = keep(results, func(item models.MenuItem) bool {
			return item.Price <= prefs.MaxPrice
		})
	}
	if prefs.Spicy {
		results = keep(results, func(item models.MenuItem) bool {
			return strings.Contains(nameAndDescription(item), "spicy")
		})
	}
	if prefs.Vegetarian {
		results = keep(results, func(item models.MenuItem) bool {
			text := nameAndDescription(item)
			for _, meat := range meatKeywords {
				if strings.Contains(text, meat) {
					return false
				}
			}
			return true
		})
	}

	if len(results) > maxRecommendations {
		results = results[:maxRecommendations]
	}
	return results
}

// noMatchesSentinel is returned verbatim for an empty item list so the
// prompt builder and API responses stay deterministic.
const noMatchesSentinel = "No matching dishes found."

// FormatForPrompt renders items as a bullet list suitable for injecting
// into the grounding prompt.
func FormatForPrompt(items []models.MenuItem) string {
	if len(items) == 0 {
		return noMatchesSentinel
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		allergenText := ""
		if len(item.Allergens) > 0 {
			allergenText = fmt.Sprintf(" (Contains: %s)", strings.Join(item.Allergens, ", "))
		}
		lines = append(lines, fmt.Sprintf("- %s: %s - $%.2f%s",
			item.Name, item.Description, item.Price, allergenText))
	}
	return strings.Join(lines, "\n")
}

// Items strips the relevance annotation from a scored result set.
func Items(scored []ScoredItem) []models.MenuItem {
	items := make([]models.MenuItem, len(scored))
	for i, s := range scored {
		items[i] = s.MenuItem
	}
	return items
}

// hasExcludedAllergen reports whether any of the item's allergen tags
// case-insensitively matches any excluded allergen. This is the veto
// every search path applies before any other signal.
func hasExcludedAllergen(item models.MenuItem, excludeAllergens []string) bool {
	for _, excluded := range excludeAllergens {
		if item.HasAllergen(excluded) {
			return true
		}
	}
	return false
}

func nameAndDescription(item models.MenuItem) string {
	return strings.ToLower(item.Name + " " + item.Description)
}

func keep(items []models.MenuItem, pred func(models.MenuItem) bool) []models.MenuItem {
	filtered := items[:0]
	for _, item := range items {
		if pred(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
