// Package participation records which workers joined which structure tests.
package participation

import (
	"context"
	"errors"
	"fmt"

	participationstore "github.com/dalemusser/wallcharts/internal/app/store/participations"
	structureteststore "github.com/dalemusser/wallcharts/internal/app/store/structuretests"
	workerstore "github.com/dalemusser/wallcharts/internal/app/store/workers"
	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Tracker sets participation on behalf of an actor.
type Tracker struct {
	Workers        *workerstore.Store
	Tests          *structureteststore.Store
	Participations *participationstore.Store
	Audit          *auditlog.Logger
}

// New wires a Tracker over db.
func New(db *mongo.Database, audit *auditlog.Logger) *Tracker {
	return &Tracker{
		Workers:        workerstore.New(db),
		Tests:          structureteststore.New(db),
		Participations: participationstore.New(db),
		Audit:          audit,
	}
}

// SetParticipation joins (join=true) or leaves the worker from the test and
// reports whether the participation state changed. Both directions are
// idempotent; a repeated call writes nothing and is not audited. The actor's
// scope must cover the worker's organizing department.
func (t *Tracker) SetParticipation(ctx context.Context, workerID, testID primitive.ObjectID, join bool, actor scope.Actor) (changed bool, err error) {
	w, err := t.Workers.GetByID(ctx, workerID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, fmt.Errorf("%w: worker %s", apperr.ErrNotFound, workerID.Hex())
	}
	if err != nil {
		return false, err
	}

	if err := scope.Authorize(scope.Resolve(actor), w.OrganizingDeptID); err != nil {
		return false, err
	}

	if join {
		if _, err := t.Tests.GetByID(ctx, testID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return false, fmt.Errorf("%w: structure test %s", apperr.ErrNotFound, testID.Hex())
			}
			return false, err
		}
	}

	joined, err := t.Participations.Exists(ctx, workerID, testID)
	if err != nil {
		return false, err
	}
	if joined == join {
		return false, nil
	}

	if join {
		err = t.Participations.Add(ctx, workerID, testID)
	} else {
		err = t.Participations.Remove(ctx, workerID, testID)
	}
	if err != nil {
		return false, err
	}

	t.Audit.Roster(auditlog.EventParticipationSet, actor.UserID, actor.Email, map[string]string{
		"worker_id": workerID.Hex(),
		"test_id":   testID.Hex(),
		"joined":    fmt.Sprint(join),
	})
	return true, nil
}
