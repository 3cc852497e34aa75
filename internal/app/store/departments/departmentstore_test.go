package departmentstore_test

import (
	"sync"
	"testing"

	departmentstore "github.com/dalemusser/wallcharts/internal/app/store/departments"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_GetOrCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d1, created, err := store.GetOrCreate(ctx, "Genetics", "genetics")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("first call should create")
	}
	if d1.Slug != "genetics" || d1.CreatedAt.IsZero() {
		t.Errorf("unexpected department: %+v", d1)
	}

	d2, created, err := store.GetOrCreate(ctx, "GENETICS", "genetics")
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("second call should match the existing department")
	}
	if d2.ID != d1.ID || d2.Name != "Genetics" {
		t.Errorf("expected the original department, got %+v", d2)
	}

	count, err := db.Collection("departments").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 department, got %d", count)
	}
}

func TestStore_GetOrCreate_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[primitive.ObjectID]bool{}
		created int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, c, err := store.GetOrCreate(ctx, "Genetics", "genetics")
			if err != nil {
				t.Errorf("GetOrCreate failed: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[d.ID] = true
			if c {
				created++
			}
		}()
	}
	wg.Wait()

	if len(ids) != 1 || created != 1 {
		t.Errorf("distinct ids = %d, created = %d; want 1 and 1", len(ids), created)
	}
}

func TestStore_GetBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fixtures.CreateDepartment(ctx, "Molecular Biology")

	got, err := store.GetBySlug(ctx, "molecular-biology")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("GetBySlug returned %s, want %s", got.ID.Hex(), d.ID.Hex())
	}

	if _, err := store.GetBySlug(ctx, "nope"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_List_SortedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateDepartment(ctx, "Physics")
	fixtures.CreateDepartment(ctx, "Chemistry")

	depts, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(depts) != 2 || depts[0].Name != "Chemistry" {
		t.Errorf("unexpected order: %+v", depts)
	}
}

func TestStore_SetUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fixtures.CreateDepartment(ctx, "Physics")
	u := fixtures.CreateUnit(ctx, "Unit A")

	if err := store.SetUnit(ctx, d.ID, u.ID); err != nil {
		t.Fatalf("SetUnit failed: %v", err)
	}
	got, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.UnitID == nil || *got.UnitID != u.ID {
		t.Errorf("UnitID = %v, want %s", got.UnitID, u.ID.Hex())
	}

	if err := store.SetUnit(ctx, primitive.NewObjectID(), u.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for unknown department, got %v", err)
	}
}
