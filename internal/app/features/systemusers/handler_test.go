package systemusers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/wallcharts/internal/app/features/systemusers"
	"github.com/dalemusser/wallcharts/internal/app/roster"
	"github.com/dalemusser/wallcharts/internal/app/system/authutil"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

func TestUpsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	hasher := authutil.NewHasher("pepper").WithCost(bcrypt.MinCost)
	svc := roster.New(db, roster.Config{}, hasher, zap.NewNop(), nil)
	h := systemusers.NewHandler(svc, zap.NewNop())
	admin := testutil.AdminActor()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	dept := testutil.NewFixtures(t, db).CreateDepartment(ctx, "Genetics")

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.HandleUpsert(rec, testutil.WithActor(testutil.NewJSONRequest("POST", "/users", body), admin))
		return rec
	}

	rec := post(`{"email":"org@example.org","password":"solidarity-forever","department_id":"` + dept.ID.Hex() + `"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var u models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.DepartmentID == nil || *u.DepartmentID != dept.ID {
		t.Errorf("department = %v", u.DepartmentID)
	}
	if body := rec.Body.String(); strings.Contains(body, "password_hash") || strings.Contains(body, "solidarity") {
		t.Error("password material must not be serialized")
	}

	rec = post(`{"id":"` + u.ID.Hex() + `","email":"renamed@example.org"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if rec := post(`{"email":"renamed@example.org","password":"solidarity-forever"}`); rec.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", rec.Code)
	}
	if rec := post(`{"email":"x@example.org"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("no password: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeList(rec, testutil.WithActor(testutil.NewRequest("GET", "/users"), admin))
	var users []models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 1 || users[0].Email != "renamed@example.org" {
		t.Errorf("users = %+v", users)
	}
}

func TestServeList_OrganizerForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := roster.New(db, roster.Config{}, authutil.NewHasher("pepper"), zap.NewNop(), nil)
	h := systemusers.NewHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	req := testutil.WithActor(testutil.NewRequest("GET", "/users"), testutil.OrganizerActor(primitive.NewObjectID()))
	h.ServeList(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
