// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Wallcharts.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: WALLCHARTS_MONGO_URI, WALLCHARTS_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "wallcharts", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "Maximum connections in the MongoDB pool"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "Connections kept open in the MongoDB pool"},
	{Name: "session_key", Default: "", Desc: "Session signing key (32+ random chars; required in production)"},
	{Name: "session_name", Default: "wallcharts-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	{Name: "password_pepper", Default: "", Desc: "Server-side key mixed into password digests (required in production)"},

	// First administrator bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the administrator created when no users exist"},
	{Name: "admin_password", Default: "", Desc: "Password of the administrator created when no users exist"},

	{Name: "roster_watermark_scope", Default: roster.WatermarkGlobal, Desc: "Roster 'last updated' scope: 'global' or 'department'"},

	// Login throttling
	{Name: "login_rate_ip", Default: 20, Desc: "Login attempts allowed per client address per window (0 disables)"},
	{Name: "login_rate_email", Default: 5, Desc: "Login attempts allowed per account per window (0 disables)"},
	{Name: "login_rate_window", Default: "5m", Desc: "Login throttling window"},

	// Operation timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list and aggregate operations"},
	{Name: "timeout_batch", Default: "120s", Desc: "Timeout for personnel imports"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "log", Desc: "Auth event logging: 'log' or 'off'"},
	{Name: "audit_log_roster", Default: "log", Desc: "Roster event logging: 'log' or 'off'"},
	{Name: "audit_log_admin", Default: "log", Desc: "Admin event logging: 'log' or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, WALLCHARTS_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WALLCHARTS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		PasswordPepper: appValues.String("password_pepper"),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),

		WatermarkScope: appValues.String("roster_watermark_scope"),

		LoginRateIP:     appValues.Int("login_rate_ip"),
		LoginRateEmail:  appValues.Int("login_rate_email"),
		LoginRateWindow: appValues.Duration("login_rate_window", 5*time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutBatch:  appValues.Duration("timeout_batch", timeouts.DefaultBatch),

		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogRoster: appValues.String("audit_log_roster"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Secrets that dev can live without (session key, pepper) are only
// required in production.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}

	if !roster.ValidWatermarkScope(appCfg.WatermarkScope) {
		return fmt.Errorf("roster_watermark_scope must be %q or %q, got %q",
			roster.WatermarkGlobal, roster.WatermarkDepartment, appCfg.WatermarkScope)
	}

	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize > 0 {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.LoginRateIP < 0 || appCfg.LoginRateEmail < 0 {
		return fmt.Errorf("login_rate_ip and login_rate_email must not be negative")
	}

	for key, v := range map[string]string{
		"audit_log_auth":   appCfg.AuditLogAuth,
		"audit_log_roster": appCfg.AuditLogRoster,
		"audit_log_admin":  appCfg.AuditLogAdmin,
	} {
		if v != "" && v != "log" && v != "off" {
			return fmt.Errorf("%s must be 'log' or 'off', got %q", key, v)
		}
	}

	prod := coreCfg != nil && coreCfg.Env == "prod"
	if appCfg.PasswordPepper == "" {
		if prod {
			return fmt.Errorf("password_pepper must be set in production")
		}
		logger.Warn("password_pepper is empty; password digests are unkeyed")
	}
	if appCfg.SessionKey == "" && prod {
		return fmt.Errorf("session_key must be set in production")
	}

	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}

	return nil
}
