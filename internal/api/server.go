package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"streamlist/internal/api/handlers"
	"streamlist/internal/api/middleware"
	"streamlist/internal/cart"
	"streamlist/internal/config"
	"streamlist/internal/search"
	"streamlist/internal/watchlist"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	watchlist *watchlist.Store
	cart      *cart.Store
	search    *search.Store
	logger    *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, wl *watchlist.Store, ct *cart.Store, se *search.Store, logger *logrus.Logger) *Server {
	s := &Server{
		watchlist: wl,
		cart:      ct,
		search:    se,
		logger:    logger,
	}

	router := mux.NewRouter()
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(router, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(router *mux.Router) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	router.HandleFunc("/health", healthHandler.ServeHTTP).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// Watchlist
	wl := handlers.NewWatchlistHandler(s.watchlist, s.logger)
	api.HandleFunc("/watchlist", wl.List).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", wl.Add).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/edit", wl.CancelEdit).Methods(http.MethodDelete)
	api.HandleFunc("/watchlist/{id}", wl.SaveEdit).Methods(http.MethodPut)
	api.HandleFunc("/watchlist/{id}", wl.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/watchlist/{id}/toggle", wl.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/{id}/edit", wl.BeginEdit).Methods(http.MethodPost)

	// Search
	se := handlers.NewSearchHandler(s.search, s.logger)
	api.HandleFunc("/search", se.State).Methods(http.MethodGet)
	api.HandleFunc("/search", se.Search).Methods(http.MethodPost)
	api.HandleFunc("/search", se.Clear).Methods(http.MethodDelete)

	// Cart
	ch := handlers.NewCartHandler(s.cart, s.logger)
	api.HandleFunc("/cart", ch.List).Methods(http.MethodGet)
	api.HandleFunc("/cart", ch.Add).Methods(http.MethodPost)
	api.HandleFunc("/cart", ch.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/cart/checkout", ch.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/cart/{id}", ch.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/cart/{id}/increment", ch.Increment).Methods(http.MethodPost)
	api.HandleFunc("/cart/{id}/decrement", ch.Decrement).Methods(http.MethodPost)
}

// Handler returns the root handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
