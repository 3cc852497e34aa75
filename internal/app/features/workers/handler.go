// internal/app/features/workers/handler.go
package workers

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/participation"
	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the roster: department listings, worker edits and
// participation toggles.
type Handler struct {
	Roster  *roster.Service
	Tracker *participation.Tracker
	Log     *zap.Logger
}

func NewHandler(svc *roster.Service, tracker *participation.Tracker, logger *zap.Logger) *Handler {
	return &Handler{
		Roster:  svc,
		Tracker: tracker,
		Log:     logger,
	}
}

// pathID parses a hex ObjectID URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		respond.BadRequest(w, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /workers, GET /workers/{department}                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list workers")
	defer cancel()

	view, err := h.Roster.ListWorkers(ctx, actor, chi.URLParam(r, "department"))
	if err != nil {
		respond.Error(w, h.Log, "list workers", err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /workers                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in roster.NewWorker
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, "create worker", err)
		return
	}
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create worker")
	defer cancel()

	wk, err := h.Roster.CreateWorker(ctx, in, actor)
	if err != nil {
		respond.Error(w, h.Log, "create worker", err)
		return
	}
	respond.JSON(w, http.StatusCreated, wk)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /workers/edit/{id}                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get worker")
	defer cancel()

	wk, err := h.Roster.GetWorker(ctx, id, actor)
	if err != nil {
		respond.Error(w, h.Log, "get worker", err)
		return
	}
	respond.JSON(w, http.StatusOK, wk)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /workers/edit/{id}                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch roster.WorkerPatch
	if err := respond.DecodeJSON(r, &patch); err != nil {
		respond.Error(w, h.Log, "edit worker", err)
		return
	}
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "edit worker")
	defer cancel()

	if err := h.Roster.EditWorker(ctx, id, patch, actor); err != nil {
		respond.Error(w, h.Log, "edit worker", err)
		return
	}
	wk, err := h.Roster.GetWorker(ctx, id, actor)
	if err != nil {
		// A reassigned worker may now be outside the actor's scope.
		respond.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
		return
	}
	respond.JSON(w, http.StatusOK, wk)
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT / DELETE /participation/{workerID}/{testID}                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	h.setParticipation(w, r, true)
}

func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	h.setParticipation(w, r, false)
}

func (h *Handler) setParticipation(w http.ResponseWriter, r *http.Request, join bool) {
	workerID, ok := pathID(w, r, "workerID")
	if !ok {
		return
	}
	testID, ok := pathID(w, r, "testID")
	if !ok {
		return
	}
	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set participation")
	defer cancel()

	changed, err := h.Tracker.SetParticipation(ctx, workerID, testID, join, actor)
	if err != nil {
		respond.Error(w, h.Log, "set participation", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"worker_id":         workerID,
		"structure_test_id": testID,
		"participating":     join,
		"changed":           changed,
	})
}
