// internal/app/features/units/routes.go
package units

import (
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts unit management under "/units".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeUnits)

		pr.With(sm.RequireAdmin).Post("/", h.HandleCreateUnit)
	})

	return r
}

// DepartmentRoutes mounts the department list and unit mapping under "/departments".
func DepartmentRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDepartments)

		pr.With(sm.RequireAdmin).Post("/{id}/unit/{unitID}", h.HandleSetDepartmentUnit)
	})

	return r
}
