// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
The unique indexes here are the schema-level invariants of the roster; the
stores rely on them to turn races into duplicate-key errors. Errors are
aggregated so every problem is visible and startup fails fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"units", ensureUnits},
		{"departments", ensureDepartments},
		{"workers", ensureWorkers},
		{"structure_tests", ensureStructureTests},
		{"participations", ensureParticipations},
		{"users", ensureUsers},
	}
	for _, e := range ensure {
		if err := e.fn(ctx, db); err != nil {
			problems = append(problems, e.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// isDuplicateKeyErr detects E11000 across driver error shapes.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		return err
	}

	var errs []string
	for _, m := range models {
		var name string
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		var wantUnique *bool
		if m.Options != nil {
			wantUnique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(wantUnique) && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// Options or name differ: drop and recreate below.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isDuplicateKeyErr(err) && isUnique(wantUnique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(wantUnique)),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

// presentString limits a unique index to documents where the field is set,
// so many workers may have no email or phone.
func presentString(field string) bson.M {
	return bson.M{field: bson.M{"$type": "string"}}
}

func ensureUnits(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("units"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_units_nameci"),
		},
	})
}

func ensureDepartments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("departments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_departments_nameci"),
		},
		// Roster URLs address departments by slug.
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_departments_slug"),
		},
	})
}

func ensureWorkers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("workers"), []mongo.IndexModel{
		// Natural key: re-import must match, never duplicate.
		{
			Keys: bson.D{
				{Key: "name", Value: 1},
				{Key: "unit", Value: 1},
				{Key: "department_id", Value: 1},
				{Key: "contract", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_workers_natural_key"),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_workers_email").
				SetPartialFilterExpression(presentString("email")),
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_workers_phone").
				SetPartialFilterExpression(presentString("phone")),
		},
		// Roster view: filter by organizing department, sort by name.
		{
			Keys:    bson.D{{Key: "organizing_dept_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_workers_orgdept_name"),
		},
		// Watermark: max(updated).
		{
			Keys:    bson.D{{Key: "updated", Value: -1}},
			Options: options.Index().SetName("idx_workers_updated"),
		},
	})
}

func ensureStructureTests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("structure_tests"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_structure_tests_nameci"),
		},
		{
			Keys:    bson.D{{Key: "added", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_structure_tests_added"),
		},
	})
}

func ensureParticipations(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("participations"), []mongo.IndexModel{
		// Exactly one row per (worker, test).
		{
			Keys:    bson.D{{Key: "worker_id", Value: 1}, {Key: "structure_test_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_participations_worker_test"),
		},
		{
			Keys:    bson.D{{Key: "structure_test_id", Value: 1}},
			Options: options.Index().SetName("idx_participations_test"),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
	})
}
