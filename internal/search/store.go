package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"streamlist/internal/services/tmdb"
	"streamlist/internal/storage"
)

// Status is the search session state. A session is idle until a query is
// submitted, loading while the request is outstanding, then success or
// error. Status is never persisted: a restart always lands in idle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Inline messages for failures that never reach the network.
const (
	msgEmptyQuery    = "Please enter a movie title before searching."
	msgMissingAPIKey = "Missing TMDB API key. Set TMDB_API_KEY and restart the server."
)

// State is a point-in-time snapshot of the search session.
type State struct {
	Query   string     `json:"query"`
	Status  Status     `json:"status"`
	Error   string     `json:"error,omitempty"`
	Results []tmdb.Hit `json:"results"`
}

// Store owns the catalog search session. At most one search is in flight;
// submitting a new one invalidates any outstanding request, and a stale
// completion is discarded before it can touch state.
type Store struct {
	mu      sync.Mutex
	client  *tmdb.Client
	storage storage.Store
	logger  *logrus.Logger

	query   string
	results []tmdb.Hit
	status  Status
	errMsg  string

	gen    uint64 // bumped on every submit/clear; completions compare before applying
	cancel context.CancelFunc
}

// NewStore creates a search store rehydrated from persistent storage. Only
// the last query text and last result set survive a restart.
func NewStore(client *tmdb.Client, st storage.Store, logger *logrus.Logger) *Store {
	s := &Store{
		client:  client,
		storage: st,
		logger:  logger,
		status:  StatusIdle,
	}

	st.Load(storage.KeySearchQuery, &s.query)

	var saved []tmdb.Hit
	if st.Load(storage.KeySearchResults, &saved) {
		s.results = saved
	}

	logger.WithFields(logrus.Fields{
		"query":   s.query,
		"results": len(s.results),
	}).Debug("Search session rehydrated")
	return s
}

// State returns the current session snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Search submits a query and blocks until its outcome is known. Validation
// and configuration failures report inline without touching any in-flight
// request. Otherwise the previous request (if any) is invalidated and
// canceled before the new one is issued; a canceled or superseded request
// resolves silently, leaving whatever the newer submission produced.
func (s *Store) Search(query string) State {
	cleaned := strings.TrimSpace(query)

	s.mu.Lock()
	s.query = query
	s.storage.Save(storage.KeySearchQuery, s.query)

	if cleaned == "" {
		s.status = StatusError
		s.errMsg = msgEmptyQuery
		defer s.mu.Unlock()
		return s.snapshot()
	}
	if !s.client.HasKey() {
		s.status = StatusError
		s.errMsg = msgMissingAPIKey
		defer s.mu.Unlock()
		return s.snapshot()
	}

	// Invalidate any outstanding search before issuing the new one.
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.status = StatusLoading
	s.errMsg = ""
	s.mu.Unlock()

	results, err := s.client.Search(ctx, cleaned)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// Superseded while in flight; the result is discarded no matter
		// which response arrived first.
		s.logger.WithField("query", cleaned).Debug("Discarding stale search result")
		return s.snapshot()
	}

	s.cancel = nil
	cancel()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return s.snapshot()
		}
		s.status = StatusError
		s.errMsg = err.Error()
		// Prior results stay on screen.
		return s.snapshot()
	}

	s.results = results
	s.status = StatusSuccess
	s.storage.Save(storage.KeySearchResults, s.results)
	return s.snapshot()
}

// Clear cancels any in-flight request and resets the session to idle with
// an empty query and result set, dropping both persisted keys.
func (s *Store) Clear() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++

	s.query = ""
	s.results = nil
	s.status = StatusIdle
	s.errMsg = ""

	s.storage.Remove(storage.KeySearchQuery)
	s.storage.Remove(storage.KeySearchResults)
	return s.snapshot()
}

// snapshot copies current state. Callers hold the lock.
func (s *Store) snapshot() State {
	results := make([]tmdb.Hit, len(s.results))
	copy(results, s.results)

	return State{
		Query:   s.query,
		Status:  s.status,
		Error:   s.errMsg,
		Results: results,
	}
}
