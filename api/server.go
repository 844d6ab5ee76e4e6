package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"market-scout/utils"
)

// Server is the market-scout REST API.
type Server struct {
	httpServer *http.Server
	logger     *utils.Logger
}

// NewRouter builds the route tree. adminCode guards /api/v1/admin.
func NewRouter(h *Handlers, adminCode string, logger *utils.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/brands", h.Brands)
		r.Get("/search", h.Search)
		r.Post("/favorites", h.AddFavorite)
		r.Post("/describe", h.Describe)
		r.Post("/stats", h.Stats)
		r.Post("/advice", h.Advice)
		r.Post("/access-requests", h.RequestAccess)
		r.Get("/access", h.CheckAccess)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminOnly(adminCode))

			r.Get("/searches", h.AdminSearches)
			r.Get("/subscribers", h.AdminSubscribers)
			r.Post("/subscribers", h.AdminAddSubscriber)
			r.Get("/requests", h.AdminAccessRequests)
			r.Delete("/requests", h.AdminClearAccessRequests)
			r.Get("/favorites", h.AdminFavorites)
			r.Delete("/favorites", h.AdminClearFavorites)
		})
	})

	return r
}

// NewServer creates a Server listening on port.
func NewServer(port string, h *Handlers, adminCode string, logger *utils.Logger) *Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(h, adminCode, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: srv, logger: logger}
}

// Start runs the server until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("[api] Starting REST API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("[api] Stopping REST API server...")
	return s.httpServer.Shutdown(ctx)
}
