package store

// Logical keys under which each state container persists its full state.
const (
	KeyProducts = "products"
	KeyCart     = "cart"
	KeyOrders   = "orders"
)

// KV is the persistence collaborator shared by all state containers.
// Each value is the JSON-serialized full state for its key; writes replace
// the value wholesale.
type KV interface {
	// Get returns the stored value for key, with ok=false when absent.
	Get(key string) (value string, ok bool, err error)

	// Set replaces the value for key.
	Set(key, value string) error
}
