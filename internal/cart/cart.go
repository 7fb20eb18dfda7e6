// Package cart implements the session-scoped cart engine: idempotent
// line merges, derived totals, and display summaries. It is independent
// of the chat layer; callers decide when an intent becomes a mutation.
package cart

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gusto/internal/models"
)

var (
	// ErrNotFound signals that no cart (or no matching line) exists for
	// the session. Distinct from an existing cart with no lines.
	ErrNotFound = errors.New("no order found for session")

	// ErrInvalidQuantity signals a caller contract violation: quantities
	// must be positive integers.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// Line is one entry in a cart. Name, description, price, and allergens
// are snapshots taken at add time; later menu edits do not affect them.
type Line struct {
	ItemID      uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Note        string   `json:"notes"`
	Allergens   []string `json:"allergens"`
}

// Cart holds one session's order. Total is always recomputed from the
// lines, never stored independently.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"items"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the process-wide cart table, keyed by session id. All
// operations are safe for concurrent use; mutations for the same
// session serialize on the store lock.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	now   func() time.Time
}

// NewStore creates an empty cart store. Carts live until the caller
// clears them; there is no background expiry.
func NewStore() *Store {
	return &Store{
		carts: make(map[string]*Cart),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// AddItem adds an item to the session's cart, creating the cart lazily.
// Adding an item that is already in the cart increments its quantity; a
// non-empty note replaces the existing one. The returned cart is a copy.
func (s *Store) AddItem(sessionID string, item models.MenuItem, quantity int, note string) (*Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add item %d: %w", item.ID, ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		now := s.now()
		c = &Cart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}
		s.carts[sessionID] = c
	}

	merged := false
	for i := range c.Lines {
		if c.Lines[i].ItemID == item.ID {
			c.Lines[i].Quantity += quantity
			if note != "" {
				c.Lines[i].Note = note
			}
			merged = true
			break
		}
	}
	if !merged {
		c.Lines = append(c.Lines, Line{
			ItemID:      item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    quantity,
			Note:        note,
			Allergens:   append([]string(nil), item.Allergens...),
		})
	}

	s.recalculate(c)
	return c.snapshot(), nil
}

// RemoveItem removes the line for itemID from the session's cart and
// recomputes the total. Unknown sessions and unknown items both return
// ErrNotFound.
func (s *Store) RemoveItem(sessionID string, itemID uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}

	kept := c.Lines[:0]
	removed := false
	for _, line := range c.Lines {
		if line.ItemID == itemID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	c.Lines = kept

	s.recalculate(c)
	return c.snapshot(), nil
}

// Get returns a copy of the session's cart. The second return value is
// false when no cart exists for the session.
func (s *Store) Get(sessionID string) (*Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return nil, false
	}
	return c.snapshot(), true
}

// Clear deletes the session's cart. Clearing an unknown or already
// cleared session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// EmptySummary is the exact text returned for a missing or empty cart.
const EmptySummary = "Your cart is empty."

// Summary renders the session's cart for display: one line per cart
// line plus a formatted total.
func (s *Store) Summary(sessionID string) string {
	c, ok := s.Get(sessionID)
	if !ok || len(c.Lines) == 0 {
		return EmptySummary
	}

	var b strings.Builder
	b.WriteString("🛒 Your Order:\n\n")
	for _, line := range c.Lines {
		fmt.Fprintf(&b, "• %dx %s ($%.2f)\n", line.Quantity, line.Name, line.Price)
		if line.Note != "" {
			fmt.Fprintf(&b, "  Note: %s\n", line.Note)
		}
	}
	fmt.Fprintf(&b, "\n💰 Total: $%.2f", c.Total)
	return b.String()
}

// recalculate rederives the total from the lines and refreshes the
// update timestamp. Callers must hold the store lock.
func (s *Store) recalculate(c *Cart) {
	total := 0.0
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	c.Total = total
	c.UpdatedAt = s.now()
}

// snapshot returns a deep enough copy that callers cannot mutate store
// state through the returned cart.
func (c *Cart) snapshot() *Cart {
	out := *c
	out.Lines = make([]Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}
