// Package api implements the REST API server.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/deckforge/internal/api/handlers"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	host       string
	port       int
}

// Config holds configuration for the API server.
type Config struct {
	Host string
	Port int
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Host: "127.0.0.1",
		Port: 8585,
	}
}

// Handlers holds the handler instances the server routes to.
type Handlers struct {
	Deck   *handlers.DeckHandler
	Card   *handlers.CardHandler
	System *handlers.SystemHandler
}

// NewServer creates a new API server.
func NewServer(cfg *Config, h *Handlers) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router: chi.NewRouter(),
		host:   cfg.Host,
		port:   cfg.Port,
	}

	s.setupMiddleware()
	s.setupRoutes(h)

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Deck construction can sit behind a slow LLM.
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json for requests with
// bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// setupRoutes wires the API routes.
func (s *Server) setupRoutes(h *Handlers) {
	s.router.Get("/healthz", h.System.Health)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/decks", func(r chi.Router) {
			r.Post("/construct", h.Deck.ConstructDeck)
			r.Post("/analyze", h.Deck.AnalyzeDeck)
			r.Post("/curve", h.Deck.ManaCurve)
			r.Post("/curve/chart", h.Deck.ManaCurveChart)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/search", h.Card.SearchCards)
			r.Get("/{name}", h.Card.GetCard)
		})
	})
}

// Router returns the configured router. Useful for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("[API] Server starting on %s:%d", s.host, s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[API] Server error: %v", err)
		}
	}()
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}
