// internal/app/store/workers/workerstore.go
package workerstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/wallcharts/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrDuplicateWorker means another worker has the same natural key.
	ErrDuplicateWorker = errors.New("a worker with this name, unit, department and contract already exists")
	// ErrDuplicateContact means another worker already uses the email or phone.
	ErrDuplicateContact = errors.New("email or phone is already used by another worker")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("workers")}
}

// dupErr maps a duplicate-key error to the violated invariant.
func dupErr(err error) error {
	if strings.Contains(err.Error(), "uniq_workers_natural_key") {
		return ErrDuplicateWorker
	}
	return ErrDuplicateContact
}

func keyFilter(k models.WorkerKey) bson.M {
	return bson.M{
		"name":          k.Name,
		"unit":          k.Unit,
		"department_id": k.DepartmentID,
		"contract":      k.Contract,
	}
}

// Create inserts a worker outside reconciliation. A natural-key collision
// returns ErrDuplicateWorker rather than merging.
func (s *Store) Create(ctx context.Context, w models.Worker) (models.Worker, error) {
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	if w.OrganizingDeptID.IsZero() {
		w.OrganizingDeptID = w.DepartmentID
	}
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Worker{}, dupErr(err)
		}
		return models.Worker{}, err
	}
	return w, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Worker, error) {
	var w models.Worker
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return models.Worker{}, err
	}
	return w, nil
}

// GetByKey looks a worker up by natural key.
func (s *Store) GetByKey(ctx context.Context, k models.WorkerKey) (models.Worker, error) {
	var w models.Worker
	if err := s.c.FindOne(ctx, keyFilter(k)).Decode(&w); err != nil {
		return models.Worker{}, err
	}
	return w, nil
}

// UpsertByNaturalKey matches or inserts the worker with key k in one
// conditional write and stamps updated with today.
//
// On insert the natural key fields are seeded from the filter and the worker
// starts active, organized by organizingDept, added today. On match only
// updated moves, and never backwards. Profile fields are not part of the
// update document, so organizer data survives every import.
//
// A duplicate key from a concurrent insert of the same key is retried once
// and then counts as a match, but only outside a session. Inside a
// transaction the failed write has already aborted it, so the error is
// returned as is. Racing transactions see a write conflict instead, which
// WithTransaction retries.
func (s *Store) UpsertByNaturalKey(ctx context.Context, k models.WorkerKey, organizingDept primitive.ObjectID, today time.Time) (created bool, err error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"organizing_dept_id": organizingDept,
			"active":             true,
			"added":              today,
		},
		"$max": bson.M{"updated": today},
	}
	opts := options.Update().SetUpsert(true)

	res, err := s.c.UpdateOne(ctx, keyFilter(k), update, opts)
	if err != nil && wafflemongo.IsDup(err) && mongo.SessionFromContext(ctx) == nil {
		res, err = s.c.UpdateOne(ctx, keyFilter(k), update, opts)
	}
	if err != nil {
		return false, err
	}
	return res.UpsertedID != nil, nil
}

// ProfileUpdate carries organizer-maintained fields. A nil pointer leaves the
// field unchanged; a pointer to "" removes it.
type ProfileUpdate struct {
	PreferredName    *string
	Pronouns         *string
	Email            *string
	Phone            *string
	Notes            *string
	Active           *bool
	OrganizingDeptID *primitive.ObjectID
}

// UpdateProfile applies p to the worker. Identity fields and the added/updated
// dates are never touched. Returns mongo.ErrNoDocuments when the worker does
// not exist and ErrDuplicateContact when email or phone is taken.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) error {
	set := bson.M{}
	unset := bson.M{}

	strField := func(name string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			unset[name] = ""
			return
		}
		set[name] = *v
	}
	strField("preferred_name", p.PreferredName)
	strField("pronouns", p.Pronouns)
	strField("email", p.Email)
	strField("phone", p.Phone)
	strField("notes", p.Notes)
	if p.Active != nil {
		set["active"] = *p.Active
	}
	if p.OrganizingDeptID != nil {
		set["organizing_dept_id"] = *p.OrganizingDeptID
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		// Nothing to change; still report a missing worker.
		return s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	}

	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return dupErr(err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MaxUpdated returns the latest updated date across all workers, or across
// those organized by organizingDept when it is non-nil. ok is false when no
// worker matches.
func (s *Store) MaxUpdated(ctx context.Context, organizingDept *primitive.ObjectID) (t time.Time, ok bool, err error) {
	filter := bson.M{}
	if organizingDept != nil {
		filter["organizing_dept_id"] = *organizingDept
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "updated", Value: -1}}).
		SetProjection(bson.M{"updated": 1})

	var doc struct {
		Updated time.Time `bson:"updated"`
	}
	err = s.c.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return doc.Updated, true, nil
}
