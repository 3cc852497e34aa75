package logout

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	if actor, ok := auth.CurrentActor(r); ok {
		h.AuditLog.Logout(r, actor.Email)
	}
	respond.JSON(w, http.StatusOK, map[string]string{"redirect": "/login"})
}
