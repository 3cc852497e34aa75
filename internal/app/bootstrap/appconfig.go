// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, log level and
// CORS live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	MongoMaxPoolSize uint64 // 0 leaves the driver default
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies; generated per process in dev when blank
	SessionName   string        // Cookie name for sessions (default: wallcharts-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Passwords
	PasswordPepper string // Server-side key mixed into every password digest

	// First administrator, created when the users collection is empty
	AdminEmail    string
	AdminPassword string

	// Roster behavior
	WatermarkScope string // "global" or "department"

	// Login throttling; a zero limit disables that bucket
	LoginRateIP     int
	LoginRateEmail  int
	LoginRateWindow time.Duration

	// Operation timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutBatch  time.Duration

	// Audit logging: "log" or "off" per category
	AuditLogAuth   string
	AuditLogRoster string
	AuditLogAdmin  string
}
