// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts user management under "/users".
//
//	h := systemusers.NewHandler(svc, logger)
//	r.Mount("/users", systemusers.Routes(h, sessionMgr))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		// Only signed-in admins can manage users.
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireAdmin)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleUpsert)
	})

	return r
}
