// Package api exposes the comparison engine over HTTP.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phenomenon0/ballpulse/pkg/engine"
	"github.com/phenomenon0/ballpulse/pkg/stream"
)

// Server wires the engine and the streaming hub into a chi router.
type Server struct {
	engine  *engine.Engine
	hub     *stream.Hub
	logger  *log.Logger
	router  chi.Router
	started time.Time
}

// NewServer builds the HTTP surface. hub may be nil to disable the
// WebSocket feed.
func NewServer(eng *engine.Engine, hub *stream.Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		engine:  eng,
		hub:     hub,
		logger:  logger,
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		s.engine.Metrics().Registry(), promhttp.HandlerOpts{}))

	if s.hub != nil {
		r.Get("/ws", s.hub.ServeWS)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Get("/teams/resolve", s.handleResolveTeam)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleHistoryList)
			r.Get("/{entryID}", s.handleHistoryGet)
			r.Delete("/", s.handleHistoryClear)
		})

		r.Post("/cache/clear", s.handleCacheClear)
	})

	return r
}

// writeJSON writes a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}
