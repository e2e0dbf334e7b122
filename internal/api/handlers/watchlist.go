package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"streamlist/internal/watchlist"
)

// WatchlistHandler handles watchlist requests
type WatchlistHandler struct {
	store  *watchlist.Store
	logger *logrus.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(store *watchlist.Store, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{store: store, logger: logger}
}

// WatchlistResponse is the watchlist payload returned by every operation.
type WatchlistResponse struct {
	Entries []watchlist.Entry      `json:"entries"`
	Editing *watchlist.EditSession `json:"editing"`
}

type titleRequest struct {
	Title string `json:"title"`
}

func (h *WatchlistHandler) respond(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, WatchlistResponse{
		Entries: h.store.Entries(),
		Editing: h.store.Editing(),
	})
}

// List returns all entries and the active edit session.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respond(w)
}

// Add creates an entry from the submitted title. Duplicate and empty
// titles are silent no-ops.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.store.Add(req.Title)
	h.respond(w)
}

// Toggle flips the completed flag of the entry.
func (h *WatchlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.store.ToggleComplete(mux.Vars(r)["id"])
	h.respond(w)
}

// BeginEdit opens an edit session for the entry.
func (h *WatchlistHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	h.store.BeginEdit(mux.Vars(r)["id"])
	h.respond(w)
}

// CancelEdit discards the active edit session.
func (h *WatchlistHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.store.CancelEdit()
	h.respond(w)
}

// SaveEdit replaces the entry's title with the submitted one.
func (h *WatchlistHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.store.SaveEdit(mux.Vars(r)["id"], req.Title)
	h.respond(w)
}

// Remove deletes the entry.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.store.Remove(mux.Vars(r)["id"])
	h.respond(w)
}
