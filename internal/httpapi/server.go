// Package httpapi is the HTTP/WebSocket transport surface: chi routing,
// request-id/logging middleware, cors.AllowAll, and a
// websocket.Upgrader-backed handler that feeds decoded frames to the
// engine.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/soundroom/server/internal/engine"
)

// Server wires the engine's Coordinator to chi routes and a WebSocket
// upgrader.
type Server struct {
	coordinator *engine.Coordinator
	resolver    engine.TrackResolver
	upgrader    websocket.Upgrader
	logger      *slog.Logger
	validate    *requestValidator
}

func NewServer(coordinator *engine.Coordinator, resolver engine.TrackResolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		coordinator: coordinator,
		resolver:    resolver,
		logger:      logger,
		validate:    newRequestValidator(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the fully wired chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestIDMw)
	r.Use(s.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/rooms", s.handleCreateRoom)
		r.Get("/rooms/{id}", s.handleGetRoom)
		r.Get("/youtube/resolve", s.handleResolveYoutube)
	})

	r.Get("/ws", s.handleWS)

	return r
}
