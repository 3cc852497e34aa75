// Package roster implements the scoped roster operations: viewing and editing
// workers, and the administrator's units, departments, structure tests and
// users. Every operation takes the acting user explicitly.
package roster

import (
	"errors"
	"fmt"
	"time"

	departmentstore "github.com/dalemusser/wallcharts/internal/app/store/departments"
	structureteststore "github.com/dalemusser/wallcharts/internal/app/store/structuretests"
	unitstore "github.com/dalemusser/wallcharts/internal/app/store/units"
	userstore "github.com/dalemusser/wallcharts/internal/app/store/users"
	workerstore "github.com/dalemusser/wallcharts/internal/app/store/workers"
	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/authutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Watermark scopes for RosterView.LastUpdated.
const (
	WatermarkGlobal     = "global"
	WatermarkDepartment = "department"
)

// ValidWatermarkScope reports whether s is a known watermark scope.
func ValidWatermarkScope(s string) bool {
	return s == WatermarkGlobal || s == WatermarkDepartment
}

// Config tunes roster behavior.
type Config struct {
	// WatermarkScope selects what LastUpdated covers: every worker
	// (WatermarkGlobal, the default) or only the listed department.
	WatermarkScope string
}

// Service carries the stores the roster operations use.
type Service struct {
	DB          *mongo.Database
	Units       *unitstore.Store
	Departments *departmentstore.Store
	Workers     *workerstore.Store
	Tests       *structureteststore.Store
	Users       *userstore.Store
	Hasher      *authutil.Hasher
	Audit       *auditlog.Logger
	Log         *zap.Logger
	Config      Config

	Now func() time.Time
}

// New wires a Service over db.
func New(db *mongo.Database, cfg Config, hasher *authutil.Hasher, log *zap.Logger, audit *auditlog.Logger) *Service {
	if cfg.WatermarkScope == "" {
		cfg.WatermarkScope = WatermarkGlobal
	}
	return &Service{
		DB:          db,
		Units:       unitstore.New(db),
		Departments: departmentstore.New(db),
		Workers:     workerstore.New(db),
		Tests:       structureteststore.New(db),
		Users:       userstore.New(db),
		Hasher:      hasher,
		Audit:       audit,
		Log:         log,
		Config:      cfg,
		Now:         time.Now,
	}
}

func (s *Service) today() time.Time {
	now := s.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// notFound turns a missing document into apperr.ErrNotFound naming what was missing.
func notFound(err error, what string, id primitive.ObjectID) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s %s", apperr.ErrNotFound, what, id.Hex())
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperr.ErrValidation}, args...)...)
}
