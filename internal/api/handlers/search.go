package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"streamlist/internal/search"
)

// SearchHandler handles catalog search requests
type SearchHandler struct {
	store  *search.Store
	logger *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(store *search.Store, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{store: store, logger: logger}
}

type searchRequest struct {
	Query string `json:"query"`
}

// State returns the current search session.
func (h *SearchHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State())
}

// Search submits a query and responds with the resulting session state.
// Validation, configuration and transport failures are reported inline in
// the state, not as HTTP errors.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.store.Search(req.Query))
}

// Clear cancels any in-flight search and resets the session.
func (h *SearchHandler) Clear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Clear())
}
