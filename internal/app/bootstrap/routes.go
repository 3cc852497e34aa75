// internal/app/bootstrap/routes.go
package bootstrap

import (
	"encoding/hex"
	"errors"
	"net/http"

	dashboardfeature "github.com/dalemusser/wallcharts/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/wallcharts/internal/app/features/health"
	homefeature "github.com/dalemusser/wallcharts/internal/app/features/home"
	loginfeature "github.com/dalemusser/wallcharts/internal/app/features/login"
	logoutfeature "github.com/dalemusser/wallcharts/internal/app/features/logout"
	structuretestsfeature "github.com/dalemusser/wallcharts/internal/app/features/structuretests"
	systemusersfeature "github.com/dalemusser/wallcharts/internal/app/features/systemusers"
	unitsfeature "github.com/dalemusser/wallcharts/internal/app/features/units"
	uploadcsvfeature "github.com/dalemusser/wallcharts/internal/app/features/uploadcsv"
	workersfeature "github.com/dalemusser/wallcharts/internal/app/features/workers"
	"github.com/dalemusser/wallcharts/internal/app/participation"
	"github.com/dalemusser/wallcharts/internal/app/reconcile"
	userstore "github.com/dalemusser/wallcharts/internal/app/store/users"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Every route except /login and /health
// requires a signed-in user; the session middleware rebuilds the Actor from
// the stored user on each request.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	key, err := sessionKey(appCfg, secure, logger)
	if err != nil {
		return nil, err
	}
	sessionMgr, err := auth.NewSessionManager(key, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	audit := newAuditLogger(appCfg, logger)
	svc := newRosterService(db, appCfg, logger, audit)
	tracker := participation.New(db, audit)
	importer := reconcile.New(db, logger, audit)

	r := chi.NewRouter()

	// Global auth middleware: loads the Actor into context if signed in.
	r.Use(sessionMgr.LoadActor(userstore.New(db)))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRateIP, appCfg.LoginRateEmail, appCfg.LoginRateWindow)
	loginHandler := loginfeature.NewHandler(svc, sessionMgr, audit, limiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Roster
	workersHandler := workersfeature.NewHandler(svc, tracker, logger)
	r.Mount("/workers", workersfeature.Routes(workersHandler, sessionMgr))
	r.Mount("/participation", workersfeature.ParticipationRoutes(workersHandler, sessionMgr))

	stHandler := structuretestsfeature.NewHandler(svc, audit, logger)
	r.Mount("/structure_tests", structuretestsfeature.Routes(stHandler, sessionMgr))

	// Administration
	dashboardHandler := dashboardfeature.NewHandler(db, svc, logger)
	r.Mount("/admin", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	unitsHandler := unitsfeature.NewHandler(svc, logger)
	r.Mount("/units", unitsfeature.Routes(unitsHandler, sessionMgr))
	r.Mount("/departments", unitsfeature.DepartmentRoutes(unitsHandler, sessionMgr))

	usersHandler := systemusersfeature.NewHandler(svc, logger)
	r.Mount("/users", systemusersfeature.Routes(usersHandler, sessionMgr))

	uploadHandler := uploadcsvfeature.NewHandler(importer, logger)
	r.Mount("/upload_record", uploadcsvfeature.Routes(uploadHandler, sessionMgr))

	return r, nil
}

// sessionKey returns the configured key. Outside production a missing key is
// replaced by a random one, so sessions do not survive a restart.
func sessionKey(appCfg AppConfig, prod bool, logger *zap.Logger) (string, error) {
	if appCfg.SessionKey != "" {
		return appCfg.SessionKey, nil
	}
	if prod {
		return "", errors.New("session_key must be set in production")
	}
	raw := securecookie.GenerateRandomKey(32)
	if raw == nil {
		return "", errors.New("generate session key: no randomness available")
	}
	logger.Warn("session_key is empty; using a random per-process key")
	return hex.EncodeToString(raw), nil
}
