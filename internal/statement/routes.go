package statement

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers statement routes. Exports are limited to
// exportsPerMinute requests per client IP.
func (h *Handler) MountRoutes(r chi.Router, exportsPerMinute int) {
	r.Get("/api/clientes/{id}/resumen", h.Show)
	r.Get("/clientes/{id}/resumen", h.Page)
	r.Group(func(r chi.Router) {
		if exportsPerMinute > 0 {
			r.Use(httprate.Limit(exportsPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "Demasiadas exportaciones, intente más tarde", http.StatusTooManyRequests)
				}),
			))
		}
		r.Get("/api/clientes/{id}/resumen.{format}", h.Export)
	})
}
