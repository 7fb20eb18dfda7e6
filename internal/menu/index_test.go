package menu

import (
	"strings"
	"testing"

	"gusto/internal/models"
)

func sampleMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Name: "Spicy Chicken", Description: "Grilled chicken with chili", Price: 14.50, Category: "Mains", Allergens: []string{"dairy"}},
		{ID: 2, Name: "Garden Salad", Description: "Fresh greens and tomatoes", Price: 8.00, Category: "Sides"},
		{ID: 3, Name: "Peanut Noodles", Description: "Spicy noodles in peanut sauce", Price: 12.00, Category: "Mains", Allergens: []string{"peanuts", "gluten"}},
		{ID: 4, Name: "Chocolate Cake", Description: "Rich dessert with cream", Price: 6.50, Category: "Desserts", Allergens: []string{"dairy", "eggs", "gluten"}},
		{ID: 5, Name: "Lemonade", Description: "Fresh squeezed", Price: 3.00, Category: "Drinks"},
	}
}

func TestSearchByKeywords_RankingStability(t *testing.T) {
	// Collection order [C, A, B]: C scores 1, A and B both score 2.
	items := []models.MenuItem{
		{ID: 10, Name: "C dish", Description: "spicy"},
		{ID: 11, Name: "A dish", Description: "spicy chicken"},
		{ID: 12, Name: "B dish", Description: "chicken spicy wings"},
	}
	results := NewIndex(items).SearchByKeywords([]string{"spicy", "chicken"}, nil)

	if len(results) != 3 {
		t.Fatalf("SearchByKeywords returned %d results, want 3", len(results))
	}
	wantOrder := []uint{11, 12, 10}
	for i, want := range wantOrder {
		if results[i].ID != want {
			t.Errorf("results[%d].ID = %d, want %d", i, results[i].ID, want)
		}
	}
	if results[0].Relevance != 2 || results[2].Relevance != 1 {
		t.Errorf("relevance scores = %d, %d, %d, want 2, 2, 1",
			results[0].Relevance, results[1].Relevance, results[2].Relevance)
	}
}

func TestSearchByKeywords_ZeroScoreExcluded(t *testing.T) {
	results := NewIndex(sampleMenu()).SearchByKeywords([]string{"sushi"}, nil)
	if len(results) != 0 {
		t.Errorf("SearchByKeywords returned %d results for unmatched keyword, want 0", len(results))
	}
}

func TestSearchByKeywords_CaseInsensitive(t *testing.T) {
	results := NewIndex(sampleMenu()).SearchByKeywords([]string{"SPICY"}, nil)
	if len(results) != 2 {
		t.Fatalf("SearchByKeywords returned %d results, want 2", len(results))
	}
}

func TestAllergenVetoIsAbsolute(t *testing.T) {
	ix := NewIndex(sampleMenu())
	exclude := []string{"DAIRY"} // veto is case-insensitive

	for _, r := range ix.SearchByKeywords([]string{"chicken", "chocolate", "spicy"}, exclude) {
		if r.HasAllergen("dairy") {
			t.Errorf("SearchByKeywords returned dairy item %q despite exclusion", r.Name)
		}
	}
	for _, item := range ix.SearchByCategory("Mains", exclude) {
		if item.HasAllergen("dairy") {
			t.Errorf("SearchByCategory returned dairy item %q despite exclusion", item.Name)
		}
	}
	for _, item := range ix.SearchByPriceRange(0, 1000, exclude) {
		if item.HasAllergen("dairy") {
			t.Errorf("SearchByPriceRange returned dairy item %q despite exclusion", item.Name)
		}
	}
	for _, item := range ix.SafeItems(exclude) {
		if item.HasAllergen("dairy") {
			t.Errorf("SafeItems returned dairy item %q despite exclusion", item.Name)
		}
	}
}

func TestSearchByCategory(t *testing.T) {
	results := NewIndex(sampleMenu()).SearchByCategory("mains", nil)
	if len(results) != 2 {
		t.Fatalf("SearchByCategory(\"mains\") returned %d items, want 2", len(results))
	}
	for _, item := range results {
		if !item.IsInCategory("Mains") {
			t.Errorf("SearchByCategory returned item in category %q", item.Category)
		}
	}
}

func TestSearchByPriceRange_InclusiveAndSorted(t *testing.T) {
	results := NewIndex(sampleMenu()).SearchByPriceRange(3.00, 8.00, nil)

	// Bounds are inclusive: Lemonade (3.00), Chocolate Cake (6.50), Garden Salad (8.00).
	if len(results) != 3 {
		t.Fatalf("SearchByPriceRange returned %d items, want 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Price < results[i-1].Price {
			t.Errorf("results not sorted by price ascending: %v before %v",
				results[i-1].Price, results[i].Price)
		}
	}
}

func TestRecommend_FilterPipeline(t *testing.T) {
	ix := NewIndex(sampleMenu())

	recs := ix.Recommend(Preferences{Spicy: true}, nil)
	for _, item := range recs {
		if !strings.Contains(strings.ToLower(item.Name+" "+item.Description), "spicy") {
			t.Errorf("Recommend(spicy) returned non-spicy item %q", item.Name)
		}
	}

	recs = ix.Recommend(Preferences{Vegetarian: true}, nil)
	for _, item := range recs {
		if strings.Contains(strings.ToLower(item.Name+" "+item.Description), "chicken") {
			t.Errorf("Recommend(vegetarian) returned meat item %q", item.Name)
		}
	}

	recs = ix.Recommend(Preferences{Category: "mains", MaxPrice: 13.00}, nil)
	if len(recs) != 1 || recs[0].ID != 3 {
		t.Errorf("Recommend(mains, <=13) = %v, want only item 3", recs)
	}
}

func TestRecommend_TruncatesToFive(t *testing.T) {
	items := make([]models.MenuItem, 8)
	for i := range items {
		items[i] = models.MenuItem{ID: uint(i + 1), Name: "Dish", Price: 5}
	}
	recs := NewIndex(items).Recommend(Preferences{}, nil)
	if len(recs) != 5 {
		t.Errorf("Recommend returned %d items, want 5", len(recs))
	}
}

func TestFormatForPrompt(t *testing.T) {
	if got := FormatForPrompt(nil); got != "No matching dishes found." {
		t.Errorf("FormatForPrompt(nil) = %q, want the no-matches sentinel", got)
	}

	got := FormatForPrompt([]models.MenuItem{
		{Name: "Spicy Chicken", Description: "Grilled", Price: 14.5, Allergens: []string{"dairy"}},
	})
	want := "- Spicy Chicken: Grilled - $14.50 (Contains: dairy)"
	if got != want {
		t.Errorf("FormatForPrompt = %q, want %q", got, want)
	}
}

func TestMalformedItemsDegradeGracefully(t *testing.T) {
	items := []models.MenuItem{
		{}, // everything zero
		{ID: 2, Name: "Only Name"},
	}
	ix := NewIndex(items)

	if got := ix.SearchByKeywords([]string{"name"}, []string{"dairy"}); len(got) != 1 {
		t.Errorf("SearchByKeywords over sparse items returned %d results, want 1", len(got))
	}
	if got := ix.SearchByPriceRange(0, 10, nil); len(got) != 2 {
		t.Errorf("SearchByPriceRange over sparse items returned %d results, want 2", len(got))
	}
	if got := ix.SafeItems([]string{"peanuts"}); len(got) != 2 {
		t.Errorf("SafeItems over sparse items returned %d results, want 2", len(got))
	}
}
