// Package server provides the HTTP monitor and control API for the
// yantra daemon. The GUI shell is a separate process; everything it
// needs — connection control, mode switching, key events, the activity
// stream — goes through here.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/yantra/internal/app"
	"github.com/ayusman/yantra/internal/config"
	"github.com/ayusman/yantra/internal/events"
	"github.com/ayusman/yantra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	App   *app.App
	Store *store.Store
	Hub   *events.Hub
	// Connection is the default link used when a connect request has an
	// empty body.
	Connection config.Connection
}

// Server is the HTTP server for the yantra daemon.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/connect", s.handleConnect)
	s.mux.HandleFunc("/api/disconnect", s.handleDisconnect)
	s.mux.HandleFunc("/api/key", s.handleKey)
	s.mux.HandleFunc("/api/command", s.handleCommand)
	s.mux.HandleFunc("/api/mode", s.handleMode)

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/history", s.handleHistory)
	}
	if s.config.Hub != nil {
		s.mux.Handle("/api/events", NewEventsHandler(s.config.Hub))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
