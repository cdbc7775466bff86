package deliveries

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/deliveries", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
	})
}
