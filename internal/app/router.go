package app

import (
	"net/http"
	"time"

	"modpocket/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires the HTTP surface. The request timeout has to cover a
// full Imagen round trip, which can take the better part of a minute.
func NewRouter(h *Handler, rl *RateLimiterMiddleware, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(CORS)

	r.Get("/health", h.HandleHealth)

	r.Group(func(r chi.Router) {
		r.Use(ContentLengthValidator(domain.MaxRequestBodySize))
		r.Use(rl.Handler)
		r.Post("/api/generate", h.HandleGenerate)
	})

	return r
}
