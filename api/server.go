package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mpiech/connect4-server/game/session"
	ws "github.com/mpiech/connect4-server/transport/websocket"
)

// Server is the HTTP surface of the match server: read-only game
// inspection plus the WebSocket player endpoint. Moves never enter
// through plain HTTP.
type Server struct {
	registry *session.Registry
	wsGames  *ws.Handler
	router   *mux.Router
}

// NewServer creates a new API server. wsGames may be nil when the
// WebSocket transport is disabled.
func NewServer(registry *session.Registry, wsGames *ws.Handler) *Server {
	s := &Server{
		registry: registry,
		wsGames:  wsGames,
		router:   mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", s.handleListGames).Methods("GET")

	if s.wsGames != nil {
		s.router.Handle("/ws", s.wsGames)
	}

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games := s.registry.Snapshot()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(games),
		"capacity": s.registry.Capacity(),
		"games":    games,
	})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
