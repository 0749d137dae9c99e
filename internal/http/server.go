// Package http exposes the bookkeeping API over REST.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

const apiBanner = "Fintrack API v1.0"

type Server struct {
	http.Server

	users        *services.UserService
	categories   *services.CategoryService
	transactions *services.TransactionService

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer wires middleware and routes, returning a ready-to-run server.
func NewServer(
	addr string,
	logger *log.Logger,
	users *services.UserService,
	categories *services.CategoryService,
	transactions *services.TransactionService,
) *Server {
	r := chi.NewRouter()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: r,
		},
		users:        users,
		categories:   categories,
		transactions: transactions,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	resolver := security.NewResolver()

	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(security.Headers)
	r.Use(log.Middleware(logger))
	r.Use(trace.NewMiddleware(resolver.ExtractClientIP).Middleware)
	r.Use(s.limiter.Middleware(resolver.ExtractClientIP))

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/categories/{userId}", s.handleListCategories)
		r.Post("/categories/{userId}", s.handleCreateCategory)

		r.Get("/transactions/{userId}/home", s.handleHomeSummary)
		r.Get("/transactions/{userId}", s.handleListTransactions)
		r.Post("/transactions/{userId}", s.handleCreateTransaction)
		r.Delete("/transactions/{userId}/{transactionId}", s.handleDeleteTransaction)
	})

	return s
}

// Shutdown stops the HTTP server and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(apiBanner))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "UP",
		"timestamp": core.NewDateTime(time.Now()),
	})
}
