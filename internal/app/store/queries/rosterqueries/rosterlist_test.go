package rosterqueries_test

import (
	"testing"

	"github.com/dalemusser/wallcharts/internal/app/store/queries/rosterqueries"
	"github.com/dalemusser/wallcharts/internal/testutil"
)

func TestListRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	genetics := fixtures.CreateDepartment(ctx, "Genetics")
	physics := fixtures.CreateDepartment(ctx, "Physics")
	zed := fixtures.CreateWorker(ctx, "Zed", genetics)
	amy := fixtures.CreateWorker(ctx, "Amy", genetics)
	fixtures.CreateWorker(ctx, "Bob", physics)

	petition := fixtures.CreateStructureTest(ctx, "Petition", testutil.Today())
	march := fixtures.CreateStructureTest(ctx, "March", testutil.Today())
	fixtures.CreateParticipation(ctx, zed.ID, petition.ID)
	fixtures.CreateParticipation(ctx, zed.ID, march.ID)

	roster, err := rosterqueries.ListRoster(ctx, db, genetics.ID)
	if err != nil {
		t.Fatalf("ListRoster failed: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 workers, got %d", len(roster))
	}
	if roster[0].Worker.ID != amy.ID || roster[1].Worker.ID != zed.ID {
		t.Errorf("expected Amy then Zed, got %s then %s", roster[0].Worker.Name, roster[1].Worker.Name)
	}

	if roster[0].Participations == nil || len(roster[0].Participations) != 0 {
		t.Errorf("worker without participations should have an empty slice, got %v", roster[0].Participations)
	}
	if len(roster[1].Participations) != 2 {
		t.Errorf("Zed participations = %d, want 2", len(roster[1].Participations))
	}
	if !roster[1].Joined(petition.ID) || roster[0].Joined(petition.ID) {
		t.Error("Joined reports the wrong membership")
	}
}

func TestListRoster_EmptyDepartment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fixtures.CreateDepartment(ctx, "Empty")
	roster, err := rosterqueries.ListRoster(ctx, db, d.ID)
	if err != nil {
		t.Fatalf("ListRoster failed: %v", err)
	}
	if roster == nil || len(roster) != 0 {
		t.Errorf("expected empty non-nil roster, got %v", roster)
	}
}
