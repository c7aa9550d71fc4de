package store

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

var (
	ErrQuantityTooLow = errors.New("quantity must be at least 1")
	ErrItemNotFound   = errors.New("cart item not found")
)

// CartStore holds line items for a single truck's order in progress. All
// items reference the same truck; adding an item from a different truck
// replaces the entire cart. Line totals are computed by the caller and
// trusted by the store.
type CartStore struct {
	mu    sync.Mutex
	truck *models.TruckRef
	items []models.CartItem
	notifier
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

func (s *CartStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsub := s.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsub()
	}
}

// AddItem appends the item; when the cart is bound to a different truck it
// discards all existing items and rebinds first. The item must carry the
// truck reference (id and name) so no placeholder naming is needed.
func (s *CartStore) AddItem(item models.CartItem) error {
	if item.Quantity < 1 {
		return ErrQuantityTooLow
	}
	s.mu.Lock()
	if s.truck != nil && s.truck.ID != item.Truck.ID {
		s.items = nil
	}
	t := item.Truck
	s.truck = &t
	s.items = append(s.items, item)
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
	return nil
}

// ItemPatch carries partial cart-item updates. Quantity changes must come
// with the recomputed LineTotal; the store does not derive totals.
type ItemPatch struct {
	Quantity     *int
	Options      []models.SelectedOption
	Instructions *string
	LineTotal    *decimal.Decimal
}

func (s *CartStore) UpdateItem(id string, patch ItemPatch) error {
	if patch.Quantity != nil && *patch.Quantity < 1 {
		return ErrQuantityTooLow
	}
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	item := &s.items[idx]
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Options != nil {
		item.Options = patch.Options
	}
	if patch.Instructions != nil {
		item.Instructions = *patch.Instructions
	}
	if patch.LineTotal != nil {
		item.LineTotal = *patch.LineTotal
	}
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
	return nil
}

// RemoveItem filters the item out; removing the last item resets the truck
// binding. Removing an unknown id is a no-op.
func (s *CartStore) RemoveItem(id string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	if len(s.items) == 0 {
		s.items = nil
		s.truck = nil
	}
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

// Clear empties everything unconditionally.
func (s *CartStore) Clear() {
	s.mu.Lock()
	s.items = nil
	s.truck = nil
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

// Truck returns a copy of the bound truck reference, or nil when the cart
// is empty.
func (s *CartStore) Truck() *models.TruckRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.truck == nil {
		return nil
	}
	t := *s.truck
	return &t
}

func (s *CartStore) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subtotal sums the trusted line totals.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal)
	}
	return total
}

// Restore rehydrates persisted cart contents on startup.
func (s *CartStore) Restore(truck *models.TruckRef, items []models.CartItem) {
	s.mu.Lock()
	if truck != nil && len(items) > 0 {
		t := *truck
		s.truck = &t
		s.items = make([]models.CartItem, len(items))
		copy(s.items, items)
	} else {
		s.truck = nil
		s.items = nil
	}
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}
