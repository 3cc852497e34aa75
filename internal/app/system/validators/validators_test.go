package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/system/validators"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}
	for _, expected := range []string{"units", "departments", "workers", "structure_tests", "participations", "users"} {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestWorkersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	dept := primitive.NewObjectID()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	valid := bson.M{
		"name":               "Doe,Jane",
		"unit":               "A",
		"contract":           "3401",
		"department_id":      dept,
		"organizing_dept_id": dept,
		"active":             true,
		"added":              today,
		"updated":            today,
	}
	if _, err := db.Collection("workers").InsertOne(ctx, valid); err != nil {
		t.Errorf("insert valid worker failed: %v", err)
	}

	blankName := bson.M{}
	for k, v := range valid {
		blankName[k] = v
	}
	blankName["name"] = "   "
	blankName["contract"] = "3402"
	if _, err := db.Collection("workers").InsertOne(ctx, blankName); err == nil {
		t.Error("expected validation error for blank worker name")
	}

	if _, err := db.Collection("workers").InsertOne(ctx, bson.M{"name": "No Dates"}); err == nil {
		t.Error("expected validation error for worker without required fields")
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "a@example.com", "password_hash": "x"}); err != nil {
		t.Errorf("insert valid user failed: %v", err)
	}
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "b@example.com"}); err == nil {
		t.Error("expected validation error for user without password hash")
	}
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "c@example.com", "password_hash": "x", "department_id": "genetics"}); err == nil {
		t.Error("expected validation error for non-ObjectID department")
	}
}

func TestParticipationsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	if _, err := db.Collection("participations").InsertOne(ctx, bson.M{"worker_id": primitive.NewObjectID()}); err == nil {
		t.Error("expected validation error for participation without test id")
	}
}
