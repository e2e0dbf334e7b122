package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"streamlist/internal/cart"
	"streamlist/internal/services/tmdb"
)

// CartHandler handles cart requests
type CartHandler struct {
	store  *cart.Store
	logger *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *cart.Store, logger *logrus.Logger) *CartHandler {
	return &CartHandler{store: store, logger: logger}
}

// CartResponse is the cart payload returned by every operation.
type CartResponse struct {
	Items  []cart.Item `json:"items"`
	Totals cart.Totals `json:"totals"`
}

func (h *CartHandler) respond(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, CartResponse{
		Items:  h.store.Items(),
		Totals: h.store.TotalsNow(),
	})
}

func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// List returns all items with derived totals.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respond(w)
}

// Add puts a catalog search result in the cart. A repeat-add of the same
// catalog id increments the existing quantity.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var hit tmdb.Hit
	if err := json.NewDecoder(r.Body).Decode(&hit); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.store.AddHit(hit)
	h.respond(w)
}

// Increment raises an item's quantity by one.
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	h.store.Increment(id)
	h.respond(w)
}

// Decrement lowers an item's quantity by one, never below 1.
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	h.store.Decrement(id)
	h.respond(w)
}

// Remove deletes the item.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	h.store.Remove(id)
	h.respond(w)
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	h.respond(w)
}

// Checkout is a stub: there is no payment processing behind it.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	totals := h.store.TotalsNow()
	h.logger.WithFields(logrus.Fields{
		"total_qty":   totals.TotalQty,
		"total_price": totals.TotalPrice,
	}).Info("Checkout requested")

	writeJSON(w, http.StatusNotImplemented, map[string]interface{}{
		"status": "not_implemented",
		"totals": totals,
	})
}
