// internal/app/features/workers/routes.go
package workers

import (
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the roster routes under "/workers".
//
//	h := workers.NewHandler(svc, tracker, logger)
//	r.Mount("/workers", workers.Routes(h, sessionMgr))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.With(sm.RequireAdmin).Post("/", h.HandleCreate)
		pr.Get("/edit/{id}", h.ServeEdit)
		pr.Post("/edit/{id}", h.HandleEdit)
		pr.Get("/{department}", h.ServeList)
	})

	return r
}

// ParticipationRoutes mounts the join/leave toggles under "/participation".
func ParticipationRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Put("/{workerID}/{testID}", h.HandleJoin)
		pr.Delete("/{workerID}/{testID}", h.HandleLeave)
	})

	return r
}
