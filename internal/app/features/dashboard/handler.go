// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/roster"
	metricsstore "github.com/dalemusser/wallcharts/internal/app/store/metrics"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Roster *roster.Service
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, svc *roster.Service, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Roster: svc,
		Log:    logger,
	}
}

type departmentRow struct {
	ID      primitive.ObjectID  `json:"id"`
	Name    string              `json:"name"`
	Slug    string              `json:"slug"`
	UnitID  *primitive.ObjectID `json:"unit_id,omitempty"`
	Workers int64               `json:"workers"`
	Active  int64               `json:"active"`
}

type adminData struct {
	Counts      metricsstore.Counts `json:"counts"`
	Departments []departmentRow     `json:"departments"`
}

// ServeAdmin handles GET /admin: totals plus one row per department with its
// worker counts, in department-name order.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin dashboard")
	defer cancel()

	depts, err := h.Roster.ListDepartments(ctx)
	if err != nil {
		respond.Error(w, h.Log, "admin dashboard", err)
		return
	}
	byDept, err := metricsstore.WorkersByDepartment(ctx, h.DB)
	if err != nil {
		respond.Error(w, h.Log, "admin dashboard", err)
		return
	}
	counts := make(map[primitive.ObjectID]metricsstore.DepartmentCount, len(byDept))
	for _, c := range byDept {
		counts[c.DepartmentID] = c
	}

	data := adminData{
		Counts:      metricsstore.FetchDashboardCounts(ctx, h.DB),
		Departments: make([]departmentRow, 0, len(depts)),
	}
	for _, d := range depts {
		c := counts[d.ID]
		data.Departments = append(data.Departments, departmentRow{
			ID:      d.ID,
			Name:    d.Name,
			Slug:    d.Slug,
			UnitID:  d.UnitID,
			Workers: c.Workers,
			Active:  c.Active,
		})
	}

	respond.JSON(w, http.StatusOK, data)
}
