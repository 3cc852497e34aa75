package units_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/wallcharts/internal/app/features/units"
	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/authutil"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*units.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := roster.New(db, roster.Config{}, authutil.NewHasher("pepper"), zap.NewNop(), nil)
	return units.NewHandler(svc, zap.NewNop()), db
}

func TestCreateAndListUnits(t *testing.T) {
	h, _ := newHandler(t)

	create := func(body string) int {
		req := testutil.WithActor(testutil.NewJSONRequest("POST", "/units", body), testutil.AdminActor())
		rec := httptest.NewRecorder()
		h.HandleCreateUnit(rec, req)
		return rec.Code
	}

	if code := create(`{"name":"Postdocs"}`); code != http.StatusCreated {
		t.Fatalf("create: status = %d", code)
	}
	if code := create(`{"name":"postdocs"}`); code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", code)
	}
	if code := create(`{"name":""}`); code != http.StatusBadRequest {
		t.Errorf("blank: status = %d, want 400", code)
	}

	rec := httptest.NewRecorder()
	h.ServeUnits(rec, testutil.WithActor(testutil.NewRequest("GET", "/units"), testutil.AdminActor()))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var list []models.Unit
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Postdocs" {
		t.Errorf("units = %+v", list)
	}
}

func TestCreateUnit_OrganizerForbidden(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewJSONRequest("POST", "/units", `{"name":"Postdocs"}`)
	req = testutil.WithActor(req, testutil.OrganizerActor(primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	h.HandleCreateUnit(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestSetDepartmentUnit(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	dept := fx.CreateDepartment(ctx, "Genetics")
	unit := fx.CreateUnit(ctx, "Postdocs")

	set := func(deptHex, unitHex string) int {
		req := testutil.WithChiURLParams(testutil.NewRequest("POST", "/departments"), map[string]string{
			"id":     deptHex,
			"unitID": unitHex,
		})
		req = testutil.WithActor(req, testutil.AdminActor())
		rec := httptest.NewRecorder()
		h.HandleSetDepartmentUnit(rec, req)
		return rec.Code
	}

	if code := set("zzz", unit.ID.Hex()); code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", code)
	}
	if code := set(dept.ID.Hex(), primitive.NewObjectID().Hex()); code != http.StatusNotFound {
		t.Errorf("unknown unit: status = %d, want 404", code)
	}
	if code := set(dept.ID.Hex(), unit.ID.Hex()); code != http.StatusOK {
		t.Fatalf("set: status = %d", code)
	}

	rec := httptest.NewRecorder()
	h.ServeDepartments(rec, testutil.WithActor(testutil.NewRequest("GET", "/departments"), testutil.AdminActor()))
	var depts []models.Department
	if err := json.Unmarshal(rec.Body.Bytes(), &depts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(depts) != 1 || depts[0].UnitID == nil || *depts[0].UnitID != unit.ID {
		t.Errorf("departments = %+v", depts)
	}
}
