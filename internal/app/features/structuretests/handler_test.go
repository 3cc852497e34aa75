package structuretests_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/wallcharts/internal/app/features/structuretests"
	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/authutil"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := roster.New(db, roster.Config{}, authutil.NewHasher("pepper"), zap.NewNop(), nil)
	h := structuretests.NewHandler(svc, nil, zap.NewNop())
	organizer := testutil.OrganizerActor(primitive.NewObjectID())

	create := func(body string) *httptest.ResponseRecorder {
		req := testutil.WithActor(testutil.NewJSONRequest("POST", "/structure_tests", body), organizer)
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, req)
		return rec
	}

	rec := create(`{"name":"Majority Petition","description":"<em>sign</em>"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var first models.StructureTest
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = create(`{"name":"MAJORITY PETITION"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("existing: status = %d, want 200", rec.Code)
	}
	var again models.StructureTest
	if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if again.ID != first.ID {
		t.Error("expected the existing structure test")
	}

	if rec := create(`{"description":"no name"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeList(rec, testutil.WithActor(testutil.NewRequest("GET", "/structure_tests"), organizer))
	var list []models.StructureTest
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("structure tests = %d, want 1", len(list))
	}
}
