package watchlist

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"streamlist/internal/storage"
)

// Entry is a single watch-intent item.
type Entry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Normalized string `json:"normalized"` // comparison only, never displayed
	Completed  bool   `json:"completed"`
}

// EditSession is the transient editing state: which entry is being edited
// and the pending title text. It is never persisted.
type EditSession struct {
	EntryID string `json:"entryId"`
	Draft   string `json:"draft"`
}

// Store owns the watchlist collection. Entries keep insertion order and are
// unique by normalized title.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	editing *EditSession
	storage storage.Store
	logger  *logrus.Logger
}

// NewStore creates a watchlist store rehydrated from persistent storage.
func NewStore(st storage.Store, logger *logrus.Logger) *Store {
	s := &Store{storage: st, logger: logger}

	var saved []Entry
	if st.Load(storage.KeyWatchlist, &saved) {
		s.entries = sanitize(saved)
	}

	logger.WithField("entries", len(s.entries)).Debug("Watchlist rehydrated")
	return s
}

// sanitize filters rehydrated entries: rows without an id or title are
// dropped, normalized forms are recomputed, and the first occurrence wins
// when stored data violates the uniqueness invariant.
func sanitize(saved []Entry) []Entry {
	seen := make(map[string]bool, len(saved))
	entries := make([]Entry, 0, len(saved))

	for _, e := range saved {
		title := strings.TrimSpace(e.Title)
		if e.ID == "" || title == "" {
			continue
		}

		normalized := normalize(title)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		entries = append(entries, Entry{
			ID:         e.ID,
			Title:      title,
			Normalized: normalized,
			Completed:  e.Completed,
		})
	}

	return entries
}

func normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Entries returns a copy of the collection in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Editing returns the active edit session, or nil.
func (s *Store) Editing() *EditSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return nil
	}
	session := *s.editing
	return &session
}

// Add appends a new entry for title. Empty titles and titles whose
// normalized form already exists are silent no-ops.
func (s *Store) Add(title string) {
	cleaned := strings.TrimSpace(title)
	if cleaned == "" {
		return
	}

	normalized := normalize(cleaned)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfNormalized(normalized) >= 0 {
		s.logger.WithField("title", cleaned).Debug("Skipping duplicate watchlist entry")
		return
	}

	s.entries = append(s.entries, Entry{
		ID:         uuid.New().String(),
		Title:      cleaned,
		Normalized: normalized,
		Completed:  false,
	})
	s.persist()
}

// ToggleComplete flips the completed flag of the matching entry.
func (s *Store) ToggleComplete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.entries[i].Completed = !s.entries[i].Completed
	s.persist()
}

// BeginEdit opens an edit session for the matching entry, seeding the draft
// with its current title. Unknown ids are a no-op.
func (s *Store) BeginEdit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.editing = &EditSession{EntryID: id, Draft: s.entries[i].Title}
}

// SetDraft replaces the pending title text of the active edit session.
func (s *Store) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing != nil {
		s.editing.Draft = text
	}
}

// CancelEdit discards the active edit session.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

// SaveEdit replaces the title of the matching entry. An empty trimmed title
// is a no-op that leaves the edit session open. A normalized collision with
// a different entry rejects the edit silently; the session still ends.
func (s *Store) SaveEdit(id, newTitle string) {
	cleaned := strings.TrimSpace(newTitle)
	if cleaned == "" {
		return
	}

	normalized := normalize(cleaned)

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if s.editing != nil && s.editing.EntryID == id {
			s.editing = nil
		}
	}()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	if j := s.indexOfNormalized(normalized); j >= 0 && j != i {
		s.logger.WithField("title", cleaned).Debug("Rejecting edit to duplicate title")
		return
	}

	s.entries[i].Title = cleaned
	s.entries[i].Normalized = normalized
	s.persist()
}

// Remove deletes the matching entry, canceling the edit session if it
// targeted that entry.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	if s.editing != nil && s.editing.EntryID == id {
		s.editing = nil
	}
	s.persist()
}

func (s *Store) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfNormalized(normalized string) int {
	for i := range s.entries {
		if s.entries[i].Normalized == normalized {
			return i
		}
	}
	return -1
}

// persist mirrors the full collection to storage. Callers hold the lock.
func (s *Store) persist() {
	s.storage.Save(storage.KeyWatchlist, s.entries)
}
