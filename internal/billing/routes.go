package billing

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/valuations", func(r chi.Router) {
		r.Post("/", h.CreateValuation)
		r.Get("/", h.ListValuations)
		r.Get("/{id}", h.GetValuation)
	})
	r.Route("/quotations", func(r chi.Router) {
		r.Post("/", h.CreateQuotation)
		r.Get("/", h.ListQuotations)
		r.Get("/{id}", h.GetQuotation)
		r.Put("/{id}/adjustment", h.UpdateAdjustment)
		r.Put("/{id}/status", h.UpdateQuotationStatus)
	})
}
