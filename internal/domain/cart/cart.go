package cart

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/infrastructure/store"
)

// TaxRate is the flat tax applied on top of the cart subtotal at checkout.
const TaxRate = 0.15

// Item pairs a product snapshot with a quantity. Quantity is always
// positive; dropping to zero removes the item instead.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// State is the full cart contents. Total is derived from Items and
// recomputed on every change, never carried over.
type State struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

// Tax returns the tax due on the current subtotal.
func (s State) Tax() float64 {
	return s.Total * TaxRate
}

// GrandTotal returns the tax-inclusive amount. Shipping is free and
// contributes nothing.
func (s State) GrandTotal() float64 {
	return s.Total * (1 + TaxRate)
}

// ItemCount returns the sum of quantities, for the cart badge.
func (s State) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

func (s State) clone() State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, Total: s.Total}
}

func (s *State) recompute() {
	total := 0.0
	for _, item := range s.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	s.Total = total
}

// Store owns the session cart. Every mutation recomputes the total and
// mirrors the resulting state to the KV collaborator before returning.
type Store struct {
	mu    sync.RWMutex
	kv    store.KV
	state State
}

// NewStore loads the persisted cart, falling back to an empty cart when the
// value is absent or malformed. The stored total is never trusted; it is
// recomputed from the items on load.
func NewStore(kv store.KV) *Store {
	s := &Store{kv: kv, state: State{Items: []Item{}}}

	raw, ok, err := kv.Get(store.KeyCart)
	if err != nil {
		log.Printf("[Cart] Failed to read persisted state: %v", err)
		return s
	}
	if !ok {
		return s
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("[Cart] Discarding malformed persisted state: %v", err)
		return s
	}
	if state.Items == nil {
		state.Items = []Item{}
	}
	state.recompute()
	s.state = state
	return s
}

// Current returns a copy of the cart state.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Add increments the quantity of an existing item by one, or appends a new
// item with quantity one. Insertion order of other items is preserved.
func (s *Store) Add(product catalog.Product) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.state.Items {
		if s.state.Items[i].Product.ID == product.ID {
			s.state.Items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.state.Items = append(s.state.Items, Item{Product: product, Quantity: 1})
	}

	s.state.recompute()
	s.persist()
	return s.state.clone()
}

// SetQuantity sets an item's quantity to exactly quantity. A quantity of
// zero or less removes the item. Absent product ids are a no-op.
func (s *Store) SetQuantity(productID string, quantity int) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(productID)
	}

	for i := range s.state.Items {
		if s.state.Items[i].Product.ID == productID {
			s.state.Items[i].Quantity = quantity
			s.state.recompute()
			s.persist()
			break
		}
	}
	return s.state.clone()
}

// Remove deletes the matching item. Absent product ids are a no-op.
func (s *Store) Remove(productID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(productID)
}

func (s *Store) removeLocked(productID string) State {
	for i := range s.state.Items {
		if s.state.Items[i].Product.ID == productID {
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
			s.state.recompute()
			s.persist()
			break
		}
	}
	return s.state.clone()
}

// Clear empties the cart.
func (s *Store) Clear() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = []Item{}
	s.state.recompute()
	s.persist()
	return s.state.clone()
}

// persist mirrors the full cart state to storage. Callers hold the write lock.
func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("[Cart] Failed to marshal state: %v", err)
		return
	}
	if err := s.kv.Set(store.KeyCart, string(data)); err != nil {
		log.Printf("[Cart] Failed to persist state: %v", err)
	}
}
