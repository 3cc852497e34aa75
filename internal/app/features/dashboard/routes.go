// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the admin overview under "/admin".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireAdmin)
		pr.Get("/", h.ServeAdmin)
	})

	return r
}
