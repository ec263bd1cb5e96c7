package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	custommiddleware "github.com/mqasim30/Committrr-Firebase-Dashboard/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware дашборда платежей.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/ping", h.Ping)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)

		r.Route("/payments", func(r chi.Router) {
			r.Get("/recent", h.RecentPayments)
			r.Get("/valid24h", h.ValidPayments24h)
			r.Get("/completed", h.CompletedPayments)
		})

		r.Get("/challengers", h.Challengers)

		r.Route("/users", func(r chi.Router) {
			r.Get("/latest", h.LatestUsers)
			r.Get("/{userID}", h.UserDetail)
			r.Get("/{userID}/payments", h.UserPayments)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
