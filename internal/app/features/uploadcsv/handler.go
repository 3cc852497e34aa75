// internal/app/features/uploadcsv/handler.go
package uploadcsv

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dalemusser/wallcharts/internal/app/reconcile"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/csvutil"
	"github.com/dalemusser/wallcharts/internal/app/system/limits"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// FormField is the multipart field carrying the personnel extract.
const FormField = "record"

// Handler accepts personnel extracts and runs them through the reconciler.
type Handler struct {
	Importer *reconcile.Reconciler
	Log      *zap.Logger
}

func NewHandler(importer *reconcile.Reconciler, logger *zap.Logger) *Handler {
	return &Handler{
		Importer: importer,
		Log:      logger,
	}
}

type uploadResponse struct {
	Message string `json:"message"`
	reconcile.Report
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /upload_record                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize+limits.MultipartOverhead)
	if err := r.ParseMultipartForm(csvutil.MaxUploadSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respond.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error":   http.StatusText(http.StatusRequestEntityTooLarge),
				"message": "File too large. Maximum size is 5 MB.",
			})
			return
		}
		respond.BadRequest(w, "Invalid upload.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, hdr, err := r.FormFile(FormField)
	if err != nil {
		respond.BadRequest(w, "No file received. Attach the personnel extract as \""+FormField+"\".")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(hdr.Filename), ".csv") {
		respond.BadRequest(w, "Only .csv files are accepted.")
		return
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "personnel import")
	defer cancel()

	rep, err := h.Importer.ImportCSV(ctx, file, actor)
	if err != nil {
		respond.Error(w, h.Log, "personnel import", err)
		return
	}

	h.Log.Info("personnel import finished",
		zap.String("run_id", rep.RunID),
		zap.String("file", hdr.Filename),
		zap.Int("created", rep.Created),
		zap.Int("matched", rep.Matched),
		zap.Int("skipped", len(rep.Errors)),
		zap.Duration("duration", rep.Duration))

	respond.JSON(w, http.StatusOK, uploadResponse{Message: rep.Message(), Report: rep})
}
