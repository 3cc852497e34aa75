package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/system/normalize"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	return WithChiURLParams(r, map[string]string{key: value})
}

// WithChiURLParams adds several chi URL parameters at once.
func WithChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Today is the UTC midnight of now.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Fixtures provides helper methods for creating test data.
// Documents are inserted directly so fixtures do not depend on the stores under test.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert %s fixture: %v", coll, err)
	}
}

// CreateUnit creates a bargaining unit with the given name.
func (f *Fixtures) CreateUnit(ctx context.Context, name string) models.Unit {
	f.t.Helper()
	u := models.Unit{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      normalize.Slug(name),
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "units", u)
	return u
}

// CreateDepartment creates a department with the given display name.
func (f *Fixtures) CreateDepartment(ctx context.Context, name string) models.Department {
	f.t.Helper()
	d := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      normalize.Slug(name),
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "departments", d)
	return d
}

// CreateWorker creates an active worker organized by its home department.
func (f *Fixtures) CreateWorker(ctx context.Context, name string, dept models.Department) models.Worker {
	f.t.Helper()
	today := Today()
	w := models.Worker{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Contract:         "3401",
		Unit:             "A",
		DepartmentID:     dept.ID,
		OrganizingDeptID: dept.ID,
		Active:           true,
		Added:            today,
		Updated:          today,
	}
	f.insert(ctx, "workers", w)
	return w
}

// CreateWorkerAt creates a worker with explicit added/updated dates.
func (f *Fixtures) CreateWorkerAt(ctx context.Context, name string, dept models.Department, updated time.Time) models.Worker {
	f.t.Helper()
	w := models.Worker{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Contract:         "3401",
		Unit:             "A",
		DepartmentID:     dept.ID,
		OrganizingDeptID: dept.ID,
		Active:           true,
		Added:            updated,
		Updated:          updated,
	}
	f.insert(ctx, "workers", w)
	return w
}

// CreateStructureTest creates an active structure test added at the given time.
func (f *Fixtures) CreateStructureTest(ctx context.Context, name string, added time.Time) models.StructureTest {
	f.t.Helper()
	st := models.StructureTest{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: name + " description",
		Active:      true,
		Added:       added,
	}
	f.insert(ctx, "structure_tests", st)
	return st
}

// CreateParticipation records that a worker joined a structure test.
func (f *Fixtures) CreateParticipation(ctx context.Context, workerID, testID primitive.ObjectID) {
	f.t.Helper()
	f.insert(ctx, "participations", models.Participation{
		ID:              primitive.NewObjectID(),
		WorkerID:        workerID,
		StructureTestID: testID,
		CreatedAt:       time.Now().UTC(),
	})
}

// CreateUser creates a user with a preset password hash. A nil department
// makes the user an administrator.
func (f *Fixtures) CreateUser(ctx context.Context, email, passwordHash string, dept *primitive.ObjectID) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: passwordHash,
		DepartmentID: dept,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}
