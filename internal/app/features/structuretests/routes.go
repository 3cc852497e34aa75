// internal/app/features/structuretests/routes.go
package structuretests

import (
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts structure tests under "/structure_tests".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
	})

	return r
}
