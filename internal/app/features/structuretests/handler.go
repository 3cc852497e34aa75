// internal/app/features/structuretests/handler.go
package structuretests

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves structure tests. Any signed-in user may add one.
type Handler struct {
	Roster   *roster.Service
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(svc *roster.Service, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Roster:   svc,
		AuditLog: audit,
		Log:      logger,
	}
}

type createInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list structure tests")
	defer cancel()

	list, err := h.Roster.ListStructureTests(ctx)
	if err != nil {
		respond.Error(w, h.Log, "list structure tests", err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleCreate returns 201 for a new test and 200 when the name already existed.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, "create structure test", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create structure test")
	defer cancel()

	st, created, err := h.Roster.CreateOrGetStructureTest(ctx, in.Name, in.Description)
	if err != nil {
		respond.Error(w, h.Log, "create structure test", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		if actor, ok := auth.CurrentActor(r); ok {
			h.AuditLog.Roster(auditlog.EventStructureTest, actor.UserID, actor.Email, map[string]string{
				"structure_test_id": st.ID.Hex(),
				"name":              st.Name,
			})
		}
	}
	respond.JSON(w, status, st)
}
