// internal/app/features/login/handler.go
package login

import (
	"errors"
	"mime"
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/normalize"
	"github.com/dalemusser/wallcharts/internal/app/system/ratelimit"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Roster     *roster.Service
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
	Log        *zap.Logger
}

func NewHandler(svc *roster.Service, sessionMgr *auth.SessionManager, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Roster:     svc,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Limiter:    limiter,
		Log:        logger,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Redirect string `json:"redirect"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// readCredentials accepts a JSON body or a regular form post.
func readCredentials(r *http.Request) (credentials, error) {
	var c credentials
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		err := respond.DecodeJSON(r, &c)
		return c, err
	}
	if err := r.ParseForm(); err != nil {
		return c, err
	}
	c.Email = r.FormValue("email")
	c.Password = r.FormValue("password")
	return c, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		respond.BadRequest(w, "Invalid form data.")
		return
	}
	email := normalize.Email(c.Email)
	if email == "" || c.Password == "" {
		respond.BadRequest(w, "Please enter your email and password.")
		return
	}
	if err := h.Limiter.Check(r, email); err != nil {
		h.AuditLog.LoginFailed(r, email, "rate limited")
		respond.JSON(w, http.StatusTooManyRequests, map[string]string{
			"error": "Too many login attempts. Please wait a few minutes and try again.",
		})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	actor, err := h.Roster.Login(ctx, email, c.Password)
	if errors.Is(err, apperr.ErrAuth) {
		h.AuditLog.LoginFailed(r, email, "incorrect credentials")
		respond.Error(w, h.Log, "login", err)
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "login", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, actor.UserID); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		respond.Error(w, h.Log, "login", err)
		return
	}
	h.Limiter.Succeeded(email)
	h.AuditLog.LoginSuccess(r, actor.UserID, actor.Email)

	dest := "/workers"
	if scope.Resolve(actor).IsAdmin() {
		dest = "/admin"
	}
	respond.JSON(w, http.StatusOK, loginResponse{
		Redirect: dest,
		Email:    actor.Email,
		Role:     actor.Role.String(),
	})
}
