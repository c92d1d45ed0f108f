package catalog

import (
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// Sort orders accepted by Search.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// Data carries the fields of a product to be created; the store assigns the id.
type Data struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	InStock     *bool    `json:"inStock"`
}

// Store owns the product catalog. State is held in memory, guarded by a
// lock, and mirrored wholesale to the KV collaborator after every mutation.
type Store struct {
	mu       sync.RWMutex
	kv       store.KV
	products []Product
}

// NewStore loads the persisted catalog, seeding the fixed initial catalog on
// first run or when the persisted value cannot be decoded.
func NewStore(kv store.KV) *Store {
	s := &Store{kv: kv}

	raw, ok, err := kv.Get(store.KeyProducts)
	if err != nil {
		log.Printf("[Catalog] Failed to read persisted state: %v", err)
	}
	if ok && err == nil {
		var products []Product
		jsonErr := json.Unmarshal([]byte(raw), &products)
		if jsonErr == nil {
			s.products = products
			return s
		}
		log.Printf("[Catalog] Discarding malformed persisted state: %v", jsonErr)
	}

	s.products = SeedProducts()
	s.persist()
	return s
}

// Products returns the catalog in insertion order.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...)
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Add assigns a fresh id and appends the product to the catalog.
func (s *Store) Add(data Data) (Product, error) {
	if data.Name == "" {
		return Product{}, ErrInvalidName
	}
	if data.Price < 0 {
		return Product{}, ErrInvalidPrice
	}

	product := Product{
		ID:          uuid.New().String(),
		Name:        data.Name,
		Price:       data.Price,
		Image:       data.Image,
		Description: data.Description,
		Category:    data.Category,
		InStock:     data.InStock,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, product)
	s.persist()
	return product, nil
}

// Update merges the set fields of patch into the matching product in place,
// preserving its position in the catalog.
func (s *Store) Update(id string, patch Patch) (Product, error) {
	if patch.Name != nil && *patch.Name == "" {
		return Product{}, ErrInvalidName
	}
	if patch.Price != nil && *patch.Price < 0 {
		return Product{}, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Image != nil {
			p.Image = *patch.Image
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.InStock != nil {
			p.InStock = *patch.InStock
		}
		s.persist()
		return *p, nil
	}
	return Product{}, ErrProductNotFound
}

// Remove deletes the matching product. Orders hold item copies, so removing
// a product never reaches into placed orders.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persist()
			return nil
		}
	}
	return ErrProductNotFound
}

// Search filters by case-insensitive name substring and optional exact
// category, then sorts a copy by the requested order (name by default).
func (s *Store) Search(term, category, sortBy string) []Product {
	term = strings.ToLower(term)

	s.mu.RLock()
	matched := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.RUnlock()

	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortPriceHigh:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Name) < strings.ToLower(matched[j].Name)
		})
	}
	return matched
}

// Categories returns the distinct categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, p := range s.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}

// persist mirrors the full catalog to storage. Callers hold the write lock.
func (s *Store) persist() {
	data, err := json.Marshal(s.products)
	if err != nil {
		log.Printf("[Catalog] Failed to marshal state: %v", err)
		return
	}
	if err := s.kv.Set(store.KeyProducts, string(data)); err != nil {
		log.Printf("[Catalog] Failed to persist state: %v", err)
	}
}
