package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/infrastructure/store"
)

func testItems() []cart.Item {
	return []cart.Item{
		{Product: catalog.Product{ID: "p-1", Name: "A", Price: 100}, Quantity: 2},
		{Product: catalog.Product{ID: "p-2", Name: "B", Price: 50}, Quantity: 1},
	}
}

func testCustomer() Customer {
	return Customer{
		Name:    "Sara",
		Email:   "sara@example.com",
		Phone:   "0501234567",
		Address: "12 Main St",
		City:    "Riyadh",
	}
}

// ============================================
// Place Tests
// ============================================

func TestStore_Place(t *testing.T) {
	s := NewStore(store.NewMemoryKV())

	o, err := s.Place(Draft{Items: testItems(), Total: 287.5, Customer: testCustomer()})

	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 287.5, o.Total)
	assert.WithinDuration(t, time.Now(), o.CreatedAt, time.Second)
	assert.Len(t, o.Items, 2)
}

func TestStore_Place_EmptyItems(t *testing.T) {
	s := NewStore(store.NewMemoryKV())

	_, err := s.Place(Draft{Customer: testCustomer()})

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, s.Orders())
}

func TestStore_Place_AppendsOldestFirst(t *testing.T) {
	s := NewStore(store.NewMemoryKV())

	first, err := s.Place(Draft{Items: testItems(), Total: 100})
	require.NoError(t, err)
	second, err := s.Place(Draft{Items: testItems(), Total: 200})
	require.NoError(t, err)

	orders := s.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

// ============================================
// Snapshot Isolation Tests
// ============================================

func TestStore_Place_CopiesItems(t *testing.T) {
	s := NewStore(store.NewMemoryKV())
	items := testItems()

	o, err := s.Place(Draft{Items: items, Total: 287.5})
	require.NoError(t, err)

	// Mutating the source slice after placing must not reach the order.
	items[0].Quantity = 99
	items[0].Product.Name = "mutated"
	items[0].Product.Price = 0

	stored, ok := s.Get(o.ID)
	require.True(t, ok)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, "A", stored.Items[0].Product.Name)
	assert.Equal(t, 100.0, stored.Items[0].Product.Price)
}

func TestStore_Orders_ReturnsCopies(t *testing.T) {
	s := NewStore(store.NewMemoryKV())
	o, err := s.Place(Draft{Items: testItems(), Total: 287.5})
	require.NoError(t, err)

	listed := s.Orders()
	listed[0].Items[0].Product.Price = 0
	listed[0].Items[0].Quantity = 99

	stored, ok := s.Get(o.ID)
	require.True(t, ok)
	assert.Equal(t, 100.0, stored.Items[0].Product.Price)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

// ============================================
// SetStatus Tests
// ============================================

func TestStore_SetStatus(t *testing.T) {
	s := NewStore(store.NewMemoryKV())
	first, err := s.Place(Draft{Items: testItems(), Total: 100})
	require.NoError(t, err)
	second, err := s.Place(Draft{Items: testItems(), Total: 200})
	require.NoError(t, err)

	updated, err := s.SetStatus(first.ID, StatusShipped)

	require.NoError(t, err)
	assert.Equal(t, StatusShipped, updated.Status)

	// Only the targeted order changes
	other, ok := s.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, StatusPending, other.Status)
}

func TestStore_SetStatus_AnyToAny(t *testing.T) {
	// Admin override: no transition graph is enforced.
	s := NewStore(store.NewMemoryKV())
	o, err := s.Place(Draft{Items: testItems(), Total: 100})
	require.NoError(t, err)

	for _, status := range []Status{StatusDelivered, StatusPending, StatusShipped, StatusProcessing} {
		updated, err := s.SetStatus(o.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestStore_SetStatus_Invalid(t *testing.T) {
	s := NewStore(store.NewMemoryKV())
	o, err := s.Place(Draft{Items: testItems(), Total: 100})
	require.NoError(t, err)

	_, err = s.SetStatus(o.ID, Status("cancelled"))

	assert.ErrorIs(t, err, ErrInvalidStatus)
	stored, _ := s.Get(o.ID)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestStore_SetStatus_NotFound(t *testing.T) {
	s := NewStore(store.NewMemoryKV())

	_, err := s.SetStatus("missing", StatusShipped)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// ============================================
// Dashboard Aggregates
// ============================================

func TestStore_RevenueAndCounts(t *testing.T) {
	s := NewStore(store.NewMemoryKV())
	o1, err := s.Place(Draft{Items: testItems(), Total: 115})
	require.NoError(t, err)
	_, err = s.Place(Draft{Items: testItems(), Total: 230})
	require.NoError(t, err)

	_, err = s.SetStatus(o1.ID, StatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, 345.0, s.Revenue())
	assert.Equal(t, 1, s.CountByStatus(StatusPending))
	assert.Equal(t, 1, s.CountByStatus(StatusDelivered))
	assert.Equal(t, 0, s.CountByStatus(StatusShipped))
}

// ============================================
// Persistence Tests
// ============================================

func TestStore_PersistsAcrossReload(t *testing.T) {
	kv := store.NewMemoryKV()
	s := NewStore(kv)
	o, err := s.Place(Draft{Items: testItems(), Total: 287.5, Customer: testCustomer()})
	require.NoError(t, err)
	_, err = s.SetStatus(o.ID, StatusProcessing)
	require.NoError(t, err)

	reloaded := NewStore(kv)

	orders := reloaded.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
	assert.Equal(t, StatusProcessing, orders[0].Status)
	assert.Equal(t, testCustomer(), orders[0].Customer)
	assert.Equal(t, "A", orders[0].Items[0].Product.Name)
}

func TestNewStore_MalformedStateFallsBackToEmpty(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(store.KeyOrders, "]["))

	s := NewStore(kv)

	assert.Empty(t, s.Orders())
}
