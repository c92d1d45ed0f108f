package order

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/infrastructure/store"
)

type Status string

// The closed set of order statuses. Any status may move to any other via
// explicit admin action; there is no transition graph.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrEmptyOrder    = errors.New("order must have at least one item")
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Customer is the shipping/contact information collected at checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Order is immutable once placed, except for its status. Items are copies
// taken at checkout time; later cart or catalog mutation cannot reach them.
type Order struct {
	ID        string      `json:"id"`
	Items     []cart.Item `json:"items"`
	Total     float64     `json:"total"` // tax-inclusive
	Customer  Customer    `json:"customerInfo"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Draft carries what the checkout flow supplies; the store assigns id,
// status and timestamp.
type Draft struct {
	Items    []cart.Item
	Total    float64
	Customer Customer
}

// Store owns the list of placed orders, oldest first. Orders are never
// deleted. Every mutation mirrors the full sequence to the KV collaborator.
type Store struct {
	mu     sync.RWMutex
	kv     store.KV
	orders []Order
}

// NewStore loads the persisted orders, falling back to an empty list when
// the value is absent or malformed.
func NewStore(kv store.KV) *Store {
	s := &Store{kv: kv}

	raw, ok, err := kv.Get(store.KeyOrders)
	if err != nil {
		log.Printf("[Order] Failed to read persisted state: %v", err)
		return s
	}
	if !ok {
		return s
	}

	var orders []Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		log.Printf("[Order] Discarding malformed persisted state: %v", err)
		return s
	}
	s.orders = orders
	return s
}

// Orders returns the placed orders oldest-first.
func (s *Store) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]Order, len(s.orders))
	for i, o := range s.orders {
		orders[i] = o.snapshot()
	}
	return orders
}

// Get returns the order with the given id.
func (s *Store) Get(id string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o.snapshot(), true
		}
	}
	return Order{}, false
}

// Place assigns a fresh id and creation timestamp, sets the status to
// pending and appends the order. The draft's items are copied so the order
// is unaffected by later mutation of the source slice.
func (s *Store) Place(draft Draft) (Order, error) {
	if len(draft.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	o := Order{
		ID:        uuid.New().String(),
		Items:     copyItems(draft.Items),
		Total:     draft.Total,
		Customer:  draft.Customer,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
	s.persist()
	return o.snapshot(), nil
}

// SetStatus moves the matching order to status. Statuses outside the known
// set are rejected; there is no restriction on the transition itself.
func (s *Store) SetStatus(id string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			s.persist()
			return s.orders[i].snapshot(), nil
		}
	}
	return Order{}, ErrOrderNotFound
}

// Revenue returns the sum of all order totals, for the admin dashboard.
func (s *Store) Revenue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, o := range s.orders {
		total += o.Total
	}
	return total
}

// CountByStatus returns how many orders currently carry the given status.
func (s *Store) CountByStatus(status Status) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, o := range s.orders {
		if o.Status == status {
			count++
		}
	}
	return count
}

func (o Order) snapshot() Order {
	o.Items = copyItems(o.Items)
	return o
}

func copyItems(items []cart.Item) []cart.Item {
	copied := make([]cart.Item, len(items))
	copy(copied, items)
	return copied
}

// persist mirrors the full order list to storage. Callers hold the write lock.
func (s *Store) persist() {
	data, err := json.Marshal(s.orders)
	if err != nil {
		log.Printf("[Order] Failed to marshal state: %v", err)
		return
	}
	if err := s.kv.Set(store.KeyOrders, string(data)); err != nil {
		log.Printf("[Order] Failed to persist state: %v", err)
	}
}
