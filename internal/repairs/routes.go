package repairs

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/repairs", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/status", h.ChangeStatus)
		r.Post("/{id}/recalculate", h.Recalculate)
		r.Get("/{id}/history", h.History)
	})
}
