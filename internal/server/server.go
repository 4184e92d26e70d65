// Package server provides the local HTTP preview of the recognition loop.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ayusman/fingersign/internal/gesture"
	"github.com/ayusman/fingersign/internal/server/api"
	"github.com/ayusman/fingersign/internal/store"
)

// shutdownTimeout bounds how long ListenAndServe waits for open requests
// once its context is cancelled.
const shutdownTimeout = 2 * time.Second

// Config holds the server configuration. Nil parts disable their routes.
type Config struct {
	Table     *gesture.SymbolTable
	Store     *store.Store
	SessionID string
	Frames    *FrameBuffer
	Events    *EventHub
}

// Server represents the HTTP preview server.
type Server struct {
	config Config
	router *chi.Mux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server. Every route is
// GET-only; other methods get 405 from the router.
func (s *Server) setupRoutes() {
	s.router.Use(chiMiddleware.RealIP)
	s.router.Use(chiMiddleware.Recoverer)

	s.router.Get("/api/health", s.handleHealth)

	if s.config.Table != nil {
		s.router.Method(http.MethodGet, "/api/symbols", api.NewSymbolsHandler(s.config.Table))
	}

	if s.config.Store != nil {
		s.router.Method(http.MethodGet, "/api/history", api.NewHistoryHandler(s.config.Store, s.config.SessionID))
	}

	if s.config.Frames != nil {
		s.router.Method(http.MethodGet, "/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Events != nil {
		s.router.Method(http.MethodGet, "/api/events", s.config.Events)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.SessionID != "" {
		response["session_id"] = s.config.SessionID
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled. The event hub, when
// configured, runs for the same lifetime.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.config.Events != nil {
		go s.config.Events.Run(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Preview server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
