// internal/app/features/systemusers/handler.go
package systemusers

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves administrator management of user accounts.
type Handler struct {
	Roster *roster.Service
	Log    *zap.Logger
}

func NewHandler(svc *roster.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Roster: svc,
		Log:    logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list users")
	defer cancel()

	users, err := h.Roster.ListUsers(ctx, actor)
	if err != nil {
		respond.Error(w, h.Log, "list users", err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpsert creates a user when the body has no id and updates otherwise.
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var in roster.UserInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, "save user", err)
		return
	}
	actor, _ := auth.CurrentActor(r)

	// Hashing is deliberately slow; Medium leaves room for it.
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "save user")
	defer cancel()

	u, err := h.Roster.UpsertUser(ctx, in, actor)
	if err != nil {
		respond.Error(w, h.Log, "save user", err)
		return
	}

	status := http.StatusOK
	if in.ID == nil {
		status = http.StatusCreated
	}
	respond.JSON(w, status, u)
}
