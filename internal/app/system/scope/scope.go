// Package scope resolves what part of the roster an actor may act on.
//
// Authorization rules:
//   - Administrators act on every department
//   - Organizers act only on workers whose organizing department is their own
//   - An actor without a role acts on nothing
//
// Every mutation and every department-filtered read calls Authorize (or
// RequireAdmin) before touching the store.
package scope

import (
	"fmt"

	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type kind int

const (
	kindNone kind = iota
	kindAdmin
	kindDepartment
)

// Role is either AdminRole() or DepartmentRole(id). The zero Role has no access.
type Role struct {
	kind kind
	dept primitive.ObjectID
}

// AdminRole is the unrestricted role.
func AdminRole() Role { return Role{kind: kindAdmin} }

// DepartmentRole binds an organizer to one department.
func DepartmentRole(deptID primitive.ObjectID) Role {
	if deptID.IsZero() {
		return Role{}
	}
	return Role{kind: kindDepartment, dept: deptID}
}

// RoleFor derives a role from a user's department reference: nil means administrator.
func RoleFor(departmentID *primitive.ObjectID) Role {
	if departmentID == nil {
		return AdminRole()
	}
	return DepartmentRole(*departmentID)
}

// String renders the role for logs.
func (r Role) String() string {
	switch r.kind {
	case kindAdmin:
		return "admin"
	case kindDepartment:
		return "department:" + r.dept.Hex()
	default:
		return "none"
	}
}

// Actor is the explicit identity passed into every core operation.
// The transport builds it from its session; the core never reads ambient state.
type Actor struct {
	UserID primitive.ObjectID
	Email  string
	Role   Role
}

// Scope is the department boundary an actor may act within.
type Scope struct {
	role Role
}

// Resolve computes the scope of an actor.
func Resolve(a Actor) Scope {
	return Scope{role: a.Role}
}

// IsAdmin reports whether the scope is unrestricted.
func (s Scope) IsAdmin() bool { return s.role.kind == kindAdmin }

// DepartmentID returns the bound department and true for organizer scopes.
func (s Scope) DepartmentID() (primitive.ObjectID, bool) {
	if s.role.kind != kindDepartment {
		return primitive.NilObjectID, false
	}
	return s.role.dept, true
}

// Allows reports whether the scope covers the target department.
func (s Scope) Allows(target primitive.ObjectID) bool {
	switch s.role.kind {
	case kindAdmin:
		return true
	case kindDepartment:
		return s.role.dept == target
	default:
		return false
	}
}

// String renders the scope for logs.
func (s Scope) String() string { return s.role.String() }

// Authorize returns nil when s covers target, otherwise a wrapped apperr.ErrForbidden.
func Authorize(s Scope, target primitive.ObjectID) error {
	if s.Allows(target) {
		return nil
	}
	return fmt.Errorf("%w: scope %s does not cover department %s", apperr.ErrForbidden, s, target.Hex())
}

// RequireAdmin returns nil for admin scopes, otherwise a wrapped apperr.ErrForbidden.
func RequireAdmin(s Scope) error {
	if s.IsAdmin() {
		return nil
	}
	return fmt.Errorf("%w: administrator only", apperr.ErrForbidden)
}
