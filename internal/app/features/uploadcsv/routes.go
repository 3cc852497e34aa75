// internal/app/features/uploadcsv/routes.go
package uploadcsv

import (
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the personnel upload under "/upload_record". Administrators only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireAdmin)
		pr.Post("/", h.HandleUpload)
	})

	return r
}
