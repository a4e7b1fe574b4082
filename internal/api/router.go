// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"corebank/internal/api/handler"
	"corebank/internal/api/middleware"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	authHandler *handler.AuthHandler,
	bankHandler *handler.BankHandler,
	cardHandler *handler.CardHandler,
	jwtSecret string,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Everything below requires a verified identity.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtSecret))

			r.Route("/bank", func(r chi.Router) {
				r.Post("/create", bankHandler.CreateAccount)
				r.Get("/me", bankHandler.GetAccount)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/deposit", bankHandler.Deposit)
				r.Post("/withdraw", bankHandler.Withdraw)
				r.Post("/transfer", bankHandler.Transfer)
				r.Get("/history", bankHandler.History)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Post("/", cardHandler.IssueCard)
				r.Get("/", cardHandler.GetCards)
			})
		})
	})

	return r
}
