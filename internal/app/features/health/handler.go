package health

import (
	"net/http"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler reports whether the roster database is reachable.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Log:    logger,
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LatencyMS int64  `json:"latency_ms"`
	Message   string `json:"message,omitempty"`
}

// Serve handles GET /health: 200 when a primary answers a ping within
// timeouts.Ping(), otherwise 503. The driver error is logged, not returned.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.Log, "health ping")
	defer cancel()

	start := time.Now()
	err := h.Client.Ping(ctx, readpref.Primary())
	took := time.Since(start).Milliseconds()

	if err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err), zap.Int64("latency_ms", took))
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "error",
			Database:  "disconnected",
			LatencyMS: took,
			Message:   "Database unavailable",
		})
		return
	}
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "connected", LatencyMS: took})
}
