package structureteststore_test

import (
	"testing"
	"time"

	structureteststore "github.com/dalemusser/wallcharts/internal/app/store/structuretests"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_GetOrCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := structureteststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	today := testutil.Today()
	st, created, err := store.GetOrCreate(ctx, models.StructureTest{Name: "Petition", Description: "Sign the petition", Added: today})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created || !st.Active || st.Description != "Sign the petition" {
		t.Errorf("unexpected first result: created=%v %+v", created, st)
	}

	again, created, err := store.GetOrCreate(ctx, models.StructureTest{Name: "petition", Description: "other", Added: today})
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("second call should find the existing test")
	}
	if again.ID != st.ID || again.Description != "Sign the petition" {
		t.Errorf("existing test should be returned unchanged: %+v", again)
	}
}

func TestStore_List_OrderedByAdded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := structureteststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures.CreateStructureTest(ctx, "Later", base.AddDate(0, 1, 0))
	fixtures.CreateStructureTest(ctx, "Earlier", base)

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Earlier" || list[1].Name != "Later" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := structureteststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}
