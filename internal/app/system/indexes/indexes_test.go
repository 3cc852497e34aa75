package indexes_test

import (
	"testing"

	"github.com/dalemusser/wallcharts/internal/app/system/indexes"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesUniqueIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"workers":         {"uniq_workers_natural_key", "uniq_workers_email", "uniq_workers_phone"},
		"users":           {"uniq_users_email"},
		"participations":  {"uniq_participations_worker_test"},
		"units":           {"uniq_units_nameci"},
		"departments":     {"uniq_departments_nameci"},
		"structure_tests": {"uniq_structure_tests_nameci"},
	}

	for coll, names := range expected {
		got := indexNames(t, db.Collection(coll))
		for _, n := range names {
			if !got[n] {
				t.Errorf("%s: missing index %q", coll, n)
			}
		}
	}
}

func TestEnsureAll_WorkerEmailAllowsManyMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	docs := []interface{}{
		bson.M{"name": "A", "unit": "U", "contract": "C"},
		bson.M{"name": "B", "unit": "U", "contract": "C"},
	}
	if _, err := db.Collection("workers").InsertMany(ctx, docs); err != nil {
		t.Fatalf("two workers without email should insert: %v", err)
	}
}

func indexNames(t *testing.T, c *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := c.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}
