// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/authutil"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: it applies
// the configured timeouts and seeds the first administrator.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Batch:  appCfg.TimeoutBatch,
	})

	if err := seedAdmin(ctx, deps.MongoDatabase, appCfg, logger); err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}
	return nil
}

// seedAdmin creates the configured administrator when no user exists yet.
func seedAdmin(ctx context.Context, db *mongo.Database, appCfg AppConfig, logger *zap.Logger) error {
	svc := newRosterService(db, appCfg, logger, nil)

	if appCfg.AdminEmail == "" {
		n, err := svc.Users.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			logger.Warn("no users exist and admin_email is not set; nobody can sign in")
		}
		return nil
	}

	created, err := svc.EnsureAdmin(ctx, appCfg.AdminEmail, appCfg.AdminPassword)
	if err != nil {
		return err
	}
	if !created {
		logger.Debug("users present; administrator seed skipped")
	}
	return nil
}

func newRosterService(db *mongo.Database, appCfg AppConfig, logger *zap.Logger, audit *auditlog.Logger) *roster.Service {
	cfg := roster.Config{WatermarkScope: appCfg.WatermarkScope}
	return roster.New(db, cfg, authutil.NewHasher(appCfg.PasswordPepper), logger, audit)
}

func newAuditLogger(appCfg AppConfig, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Roster: appCfg.AuditLogRoster,
		Admin:  appCfg.AuditLogAdmin,
	})
}
