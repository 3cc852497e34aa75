// Package reconcile merges the external personnel extract into the roster.
//
// Each record is matched to a worker by natural key (name, unit, department,
// job code). New workers are inserted organized by their home department;
// existing workers only have their updated date advanced. Organizer-maintained
// profile fields are never written here.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	departmentstore "github.com/dalemusser/wallcharts/internal/app/store/departments"
	workerstore "github.com/dalemusser/wallcharts/internal/app/store/workers"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/normalize"
	"github.com/dalemusser/wallcharts/internal/app/system/txn"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RawRecord is one row of the personnel extract.
type RawRecord struct {
	DepartmentLabel string
	WorkerName      string
	JobCode         string
	UnitLabel       string
	Line            int
}

// RowError describes a record that was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// CreatedWorker summarizes a worker inserted by a run.
type CreatedWorker struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Unit       string `json:"unit"`
	Contract   string `json:"contract"`
}

// Report is the outcome of one reconciliation run.
type Report struct {
	RunID              string          `json:"run_id"`
	Created            int             `json:"created"`
	Matched            int             `json:"matched"`
	DepartmentsCreated int             `json:"departments_created"`
	Errors             []RowError      `json:"errors"`
	CreatedWorkers     []CreatedWorker `json:"created_workers"`
	Duration           time.Duration   `json:"duration_ns"`
}

// Message is the operator-facing summary of the run.
func (r Report) Message() string {
	msg := fmt.Sprintf("Found %d new workers", r.Created)
	if n := len(r.Errors); n > 0 {
		msg += fmt.Sprintf(" (%d rows skipped)", n)
	}
	return msg
}

// Reconciler runs imports against the roster stores.
type Reconciler struct {
	DB          *mongo.Database
	Departments *departmentstore.Store
	Workers     *workerstore.Store
	Log         *zap.Logger
	Audit       *auditlog.Logger

	// Now supplies the clock; dates are truncated to UTC midnight.
	Now func() time.Time
}

// New wires a Reconciler over db.
func New(db *mongo.Database, log *zap.Logger, audit *auditlog.Logger) *Reconciler {
	return &Reconciler{
		DB:          db,
		Departments: departmentstore.New(db),
		Workers:     workerstore.New(db),
		Log:         log,
		Audit:       audit,
		Now:         time.Now,
	}
}

func (r *Reconciler) today() time.Time {
	now := r.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// validate returns the reason a record cannot be reconciled, or "".
func validate(rec RawRecord) string {
	var missing []string
	if strings.TrimSpace(rec.DepartmentLabel) == "" {
		missing = append(missing, "department")
	}
	if strings.TrimSpace(rec.WorkerName) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(rec.JobCode) == "" {
		missing = append(missing, "job code")
	}
	if strings.TrimSpace(rec.UnitLabel) == "" {
		missing = append(missing, "unit")
	}
	if len(missing) == 0 {
		return ""
	}
	return "missing " + strings.Join(missing, ", ")
}

// Reconcile applies records in order inside one transaction. Invalid records
// are reported and skipped; a storage error aborts the run and is returned.
func (r *Reconciler) Reconcile(ctx context.Context, records []RawRecord) (Report, error) {
	start := time.Now()
	today := r.today()
	runID := uuid.NewString()
	log := r.Log.With(zap.String("run_id", runID))

	var rep Report
	err := txn.Run(ctx, r.DB, log, func(ctx context.Context) error {
		// The transaction may be retried; start each attempt from scratch.
		rep = Report{RunID: runID, Errors: []RowError{}, CreatedWorkers: []CreatedWorker{}}
		depts := make(map[string]models.Department)

		for _, rec := range records {
			if reason := validate(rec); reason != "" {
				rep.Errors = append(rep.Errors, RowError{Line: rec.Line, Reason: reason})
				continue
			}

			label := normalize.Title(rec.DepartmentLabel)
			dept, ok := depts[label]
			if !ok {
				d, created, err := r.Departments.GetOrCreate(ctx, label, normalize.Slug(rec.DepartmentLabel))
				if err != nil {
					return fmt.Errorf("line %d: department %q: %w", rec.Line, label, err)
				}
				if created {
					rep.DepartmentsCreated++
				}
				depts[label] = d
				dept = d
			}

			key := models.WorkerKey{
				Name:         strings.TrimSpace(rec.WorkerName),
				Unit:         strings.TrimSpace(rec.UnitLabel),
				DepartmentID: dept.ID,
				Contract:     strings.TrimSpace(rec.JobCode),
			}
			created, err := r.Workers.UpsertByNaturalKey(ctx, key, dept.ID, today)
			if err != nil {
				return fmt.Errorf("line %d: worker %q: %w", rec.Line, key.Name, err)
			}
			if created {
				rep.Created++
				rep.CreatedWorkers = append(rep.CreatedWorkers, CreatedWorker{
					Name:       key.Name,
					Department: dept.Name,
					Unit:       key.Unit,
					Contract:   key.Contract,
				})
			} else {
				rep.Matched++
			}
		}
		return nil
	})
	rep.Duration = time.Since(start)

	if err != nil {
		log.Error("reconciliation aborted", zap.Error(err))
		return rep, err
	}

	log.Info("reconciliation complete",
		zap.Int("records", len(records)),
		zap.Int("created", rep.Created),
		zap.Int("matched", rep.Matched),
		zap.Int("departments_created", rep.DepartmentsCreated),
		zap.Int("errors", len(rep.Errors)),
		zap.Duration("took", rep.Duration))
	return rep, nil
}
