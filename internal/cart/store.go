package cart

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"streamlist/internal/services/tmdb"
	"streamlist/internal/storage"
)

const untitled = "Untitled"

// Item is a cart row keyed by catalog id.
type Item struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Year       string  `json:"year"`
	Overview   string  `json:"overview"`
	PosterPath string  `json:"posterPath"`
	Price      float64 `json:"price"`
	Qty        int     `json:"qty"`
}

// rawItem is the rehydration shape; the price pointer tells an absent
// field apart from a stored zero.
type rawItem struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Overview   string   `json:"overview"`
	PosterPath string   `json:"posterPath"`
	Price      *float64 `json:"price"`
	Qty        int      `json:"qty"`
}

// Totals are derived in full on every read, never stored.
type Totals struct {
	TotalQty   int    `json:"totalQty"`
	TotalPrice string `json:"totalPrice"` // display-ready, 2 decimal places
}

// Price derives the unit price for a catalog id. It is pure: the same id
// yields the same price in every session, always within [9.00, 16.00).
func Price(id int64) float64 {
	if id < 0 {
		id = 0
	}

	base := float64(id%7 + 9)
	fraction := float64(id%99) / 100
	return math.Round((base+fraction)*100) / 100
}

// Store owns the cart collection. Items are unique by catalog id; new items
// go to the front.
type Store struct {
	mu      sync.Mutex
	items   []Item
	storage storage.Store
	logger  *logrus.Logger
}

// NewStore creates a cart store rehydrated from persistent storage.
func NewStore(st storage.Store, logger *logrus.Logger) *Store {
	s := &Store{storage: st, logger: logger}

	var saved []rawItem
	if st.Load(storage.KeyCart, &saved) {
		s.items = sanitize(saved)
	}

	logger.WithField("items", len(s.items)).Debug("Cart rehydrated")
	return s
}

// sanitize repairs rehydrated rows: entries without an id are dropped,
// quantities are coerced to at least 1, a missing or unusable price is
// re-derived from the id, and a blank title falls back to the placeholder.
func sanitize(saved []rawItem) []Item {
	seen := make(map[int64]bool, len(saved))
	items := make([]Item, 0, len(saved))

	for _, r := range saved {
		if r.ID == 0 || seen[r.ID] {
			continue
		}
		seen[r.ID] = true

		qty := r.Qty
		if qty < 1 {
			qty = 1
		}

		price := Price(r.ID)
		if r.Price != nil && !math.IsNaN(*r.Price) && !math.IsInf(*r.Price, 0) {
			price = *r.Price
		}

		title := r.Title
		if title == "" {
			title = untitled
		}

		items = append(items, Item{
			ID:         r.ID,
			Title:      title,
			Year:       r.Year,
			Overview:   r.Overview,
			PosterPath: r.PosterPath,
			Price:      price,
			Qty:        qty,
		})
	}

	return items
}

// Items returns a copy of the collection, newest first.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// AddHit adds a catalog search result to the cart. A hit without an id is a
// no-op. Repeat-adds of the same id increment the existing quantity and
// leave descriptive fields and price untouched.
func (s *Store) AddHit(hit tmdb.Hit) {
	if hit.ID == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(hit.ID); i >= 0 {
		s.items[i].Qty++
		s.persist()
		return
	}

	title := hit.Title
	if title == "" {
		title = untitled
	}

	item := Item{
		ID:         hit.ID,
		Title:      title,
		Year:       tmdb.Year(hit.ReleaseDate),
		Overview:   hit.Overview,
		PosterPath: hit.PosterPath,
		Price:      Price(hit.ID),
		Qty:        1,
	}

	// Newest items first.
	s.items = append([]Item{item}, s.items...)
	s.persist()
}

// Remove deletes the matching item.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persist()
}

// Increment raises the matching item's quantity by one.
func (s *Store) Increment(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.items[i].Qty++
	s.persist()
}

// Decrement lowers the matching item's quantity by one, never below 1.
func (s *Store) Decrement(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	if s.items[i].Qty > 1 {
		s.items[i].Qty--
	}
	s.persist()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist()
}

// Contains reports whether the catalog id is already in the cart.
func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// TotalsNow recomputes the derived totals from scratch.
func (s *Store) TotalsNow() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var qty int
	var price float64
	for _, it := range s.items {
		qty += it.Qty
		price += it.Price * float64(it.Qty)
	}

	return Totals{
		TotalQty:   qty,
		TotalPrice: formatPrice(price),
	}
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist mirrors the full collection to storage. Callers hold the lock.
func (s *Store) persist() {
	s.storage.Save(storage.KeyCart, s.items)
}
