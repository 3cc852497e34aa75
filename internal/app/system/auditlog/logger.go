// internal/app/system/auditlog/logger.go
package auditlog

import (
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event categories.
const (
	CategoryAuth   = "auth"
	CategoryRoster = "roster"
	CategoryAdmin  = "admin"
)

// Event types.
const (
	EventLoginSuccess     = "login_success"
	EventLoginFailed      = "login_failed"
	EventLogout           = "logout"
	EventRosterImported   = "roster_imported"
	EventWorkerCreated    = "worker_created"
	EventWorkerEdited     = "worker_edited"
	EventParticipationSet = "participation_set"
	EventUnitCreated      = "unit_created"
	EventDepartmentUnit   = "department_unit_set"
	EventStructureTest    = "structure_test_created"
	EventUserSaved        = "user_saved"
)

// Event is one audit record. Events are written to the structured log only.
type Event struct {
	Category      string
	EventType     string
	Success       bool
	IP            string
	ActorID       *primitive.ObjectID
	ActorEmail    string
	FailureReason string
	Details       map[string]string
}

// Config controls which categories are logged. Values: "log" or "off".
// An empty value logs.
type Config struct {
	Auth   string
	Roster string
	Admin  string
}

// Logger writes audit events as zap entries tagged audit=true.
// A nil *Logger is a no-op so tests can pass nil.
type Logger struct {
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(zapLog *zap.Logger, config Config) *Logger {
	return &Logger{zapLog: zapLog, config: config}
}

// ClientIP extracts the client IP from the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	return ratelimit.ClientIP(r)
}

func (l *Logger) enabled(category string) bool {
	var setting string
	switch category {
	case CategoryAuth:
		setting = l.config.Auth
	case CategoryRoster:
		setting = l.config.Roster
	case CategoryAdmin:
		setting = l.config.Admin
	}
	return setting != "off"
}

// Log records an audit event.
func (l *Logger) Log(event Event) {
	if l == nil || l.zapLog == nil || !l.enabled(event.Category) {
		return
	}

	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.ActorEmail != "" {
		fields = append(fields, zap.String("actor_email", event.ActorEmail))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(Event{
		Category:   CategoryAuth,
		EventType:  EventLoginSuccess,
		Success:    true,
		IP:         ClientIP(r),
		ActorID:    &userID,
		ActorEmail: email,
	})
}

// LoginFailed logs a failed login attempt. The email is whatever was typed.
func (l *Logger) LoginFailed(r *http.Request, email, reason string) {
	l.Log(Event{
		Category:      CategoryAuth,
		EventType:     EventLoginFailed,
		IP:            ClientIP(r),
		ActorEmail:    email,
		FailureReason: reason,
	})
}

// Logout logs a logout.
func (l *Logger) Logout(r *http.Request, email string) {
	l.Log(Event{
		Category:   CategoryAuth,
		EventType:  EventLogout,
		Success:    true,
		IP:         ClientIP(r),
		ActorEmail: email,
	})
}

// Roster logs a roster mutation by an actor.
func (l *Logger) Roster(eventType string, actorID primitive.ObjectID, email string, details map[string]string) {
	l.Log(Event{
		Category:   CategoryRoster,
		EventType:  eventType,
		Success:    true,
		ActorID:    &actorID,
		ActorEmail: email,
		Details:    details,
	})
}

// Admin logs an administrator action.
func (l *Logger) Admin(eventType string, actorID primitive.ObjectID, email string, details map[string]string) {
	l.Log(Event{
		Category:   CategoryAdmin,
		EventType:  eventType,
		Success:    true,
		ActorID:    &actorID,
		ActorEmail: email,
		Details:    details,
	})
}
