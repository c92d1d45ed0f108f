package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
)

type Handlers struct {
	catalog  *catalog.Store
	carts    *cart.Store
	orders   *order.Store
	checkout *checkout.Service
}

func NewHandlers(c *catalog.Store, carts *cart.Store, orders *order.Store, checkout *checkout.Service) *Handlers {
	return &Handlers{
		catalog:  c,
		carts:    carts,
		orders:   orders,
		checkout: checkout,
	}
}

// Product Handlers

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products := h.catalog.Search(q.Get("q"), q.Get("category"), q.Get("sort"))
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var data catalog.Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Add(data)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Update(chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Remove(chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.catalog.Categories()
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, categories)
}

// Cart Handlers

type cartResponse struct {
	Items      []cart.Item `json:"items"`
	Subtotal   float64     `json:"subtotal"`
	Shipping   float64     `json:"shipping"`
	Tax        float64     `json:"tax"`
	GrandTotal float64     `json:"grandTotal"`
	ItemCount  int         `json:"itemCount"`
}

func toCartResponse(state cart.State) cartResponse {
	return cartResponse{
		Items:      state.Items,
		Subtotal:   state.Total,
		Shipping:   0, // free shipping
		Tax:        state.Tax(),
		GrandTotal: state.GrandTotal(),
		ItemCount:  state.ItemCount(),
	}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCartResponse(h.carts.Current()))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, ok := h.catalog.Get(req.ProductID)
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if !product.InStock {
		http.Error(w, "Product is out of stock", http.StatusConflict)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(h.carts.Add(product)))
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := h.carts.SetQuantity(chi.URLParam(r, "productID"), req.Quantity)
	respondJSON(w, http.StatusOK, toCartResponse(state))
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	state := h.carts.Remove(chi.URLParam(r, "productID"))
	respondJSON(w, http.StatusOK, toCartResponse(state))
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCartResponse(h.carts.Clear()))
}

// Checkout Handler

func (h *Handlers) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	var customer order.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	placed, err := h.checkout.Submit(r.Context(), customer)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, placed)
}

// Order Handlers

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orders.Orders())
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orders.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.orders.SetStatus(chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Admin Handlers

type statsResponse struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int     `json:"pendingOrders"`
	ProductCount  int     `json:"productCount"`
	OrderCount    int     `json:"orderCount"`
}

func (h *Handlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, statsResponse{
		TotalRevenue:  h.orders.Revenue(),
		PendingOrders: h.orders.CountByStatus(order.StatusPending),
		ProductCount:  len(h.catalog.Products()),
		OrderCount:    len(h.orders.Orders()),
	})
}

// Helpers

func respondJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

// respondError maps store and checkout errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, order.ErrOrderNotFound):
		code = http.StatusNotFound
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		code = http.StatusConflict
	case errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrMissingField):
		code = http.StatusBadRequest
	default:
		code = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), code)
}
