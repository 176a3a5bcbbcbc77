package customers

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/clientes", h.Search)
	r.Get("/api/clientes/{id}", h.Show)
	r.Get("/clientes", h.SearchForm)
}
