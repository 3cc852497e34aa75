package dashboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/features/dashboard"
	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/authutil"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestServeAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := roster.New(db, roster.Config{}, authutil.NewHasher("pepper"), zap.NewNop(), nil)
	h := dashboard.NewHandler(db, svc, zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	chemistry := fx.CreateDepartment(ctx, "Chemistry")
	genetics := fx.CreateDepartment(ctx, "Genetics")
	fx.CreateWorker(ctx, "Doe,Jane", genetics)
	fx.CreateWorker(ctx, "Roe,Rick", genetics)

	rec := httptest.NewRecorder()
	h.ServeAdmin(rec, testutil.WithActor(testutil.NewRequest("GET", "/admin"), testutil.AdminActor()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Counts struct {
			Workers int64 `json:"workers"`
		} `json:"counts"`
		Departments []struct {
			ID      primitive.ObjectID `json:"id"`
			Workers int64              `json:"workers"`
		} `json:"departments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Counts.Workers != 2 {
		t.Errorf("workers = %d, want 2", data.Counts.Workers)
	}
	if len(data.Departments) != 2 {
		t.Fatalf("departments = %d, want 2", len(data.Departments))
	}
	if data.Departments[0].ID != chemistry.ID || data.Departments[0].Workers != 0 {
		t.Errorf("first row = %+v, want Chemistry with no workers", data.Departments[0])
	}
	if data.Departments[1].Workers != 2 {
		t.Errorf("second row = %+v", data.Departments[1])
	}
}

func TestRoutes_OrganizerForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := roster.New(db, roster.Config{}, authutil.NewHasher("pepper"), zap.NewNop(), nil)
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	router := dashboard.Routes(dashboard.NewHandler(db, svc, zap.NewNop()), sm)

	rec := httptest.NewRecorder()
	req := testutil.WithActor(httptest.NewRequest("GET", "/", nil), testutil.OrganizerActor(primitive.NewObjectID()))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
