package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/wallcharts/internal/app/system/auth"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminActor returns an administrator actor.
func AdminActor() scope.Actor {
	return scope.Actor{
		UserID: primitive.NewObjectID(),
		Email:  "admin@test.com",
		Role:   scope.AdminRole(),
	}
}

// OrganizerActor returns an organizer bound to the given department.
func OrganizerActor(deptID primitive.ObjectID) scope.Actor {
	return scope.Actor{
		UserID: primitive.NewObjectID(),
		Email:  "organizer@test.com",
		Role:   scope.DepartmentRole(deptID),
	}
}

// WithActor adds an actor to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the actor directly.
func WithActor(r *http.Request, a scope.Actor) *http.Request {
	return auth.WithTestActor(r, a)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request with a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}
