package home

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"go.uber.org/zap"
)

// Handler serves the role-aware landing.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type landing struct {
	Redirect string `json:"redirect"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot tells the client where the user starts: administrators at
// /admin, organizers at their roster, everyone else at /login.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentActor(r)
	if !ok {
		respond.JSON(w, http.StatusOK, landing{Redirect: "/login"})
		return
	}

	dest := "/workers"
	if scope.Resolve(actor).IsAdmin() {
		dest = "/admin"
	}
	respond.JSON(w, http.StatusOK, landing{
		Redirect: dest,
		Email:    actor.Email,
		Role:     actor.Role.String(),
	})
}
