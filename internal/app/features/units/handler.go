// internal/app/features/units/handler.go
package units

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves bargaining units and the department-to-unit mapping.
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

type createUnitInput struct {
	Name string `json:"name"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /units                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUnits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list units")
	defer cancel()

	list, err := h.Roster.ListUnits(ctx)
	if err != nil {
		respond.Error(w, h.Log, "list units", err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /units                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreateUnit(w http.ResponseWriter, r *http.Request) {
	var in createUnitInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, "create unit", err)
		return
	}
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create unit")
	defer cancel()

	u, err := h.Roster.CreateUnit(ctx, in.Name, actor)
	if err != nil {
		respond.Error(w, h.Log, "create unit", err)
		return
	}
	respond.JSON(w, http.StatusCreated, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /departments                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list departments")
	defer cancel()

	list, err := h.Roster.ListDepartments(ctx)
	if err != nil {
		respond.Error(w, h.Log, "list departments", err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /departments/{id}/unit/{unitID}                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSetDepartmentUnit(w http.ResponseWriter, r *http.Request) {
	deptID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid department id")
		return
	}
	unitID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "unitID"))
	if err != nil {
		respond.BadRequest(w, "invalid unit id")
		return
	}
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set department unit")
	defer cancel()

	if err := h.Roster.SetDepartmentUnit(ctx, deptID, unitID, actor); err != nil {
		respond.Error(w, h.Log, "set department unit", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"department_id": deptID.Hex(),
		"unit_id":       unitID.Hex(),
	})
}
