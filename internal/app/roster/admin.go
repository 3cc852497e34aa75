package roster

import (
	"context"
	"errors"
	"fmt"

	unitstore "github.com/dalemusser/wallcharts/internal/app/store/units"
	userstore "github.com/dalemusser/wallcharts/internal/app/store/users"
	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/authutil"
	"github.com/dalemusser/wallcharts/internal/app/system/htmlsanitize"
	"github.com/dalemusser/wallcharts/internal/app/system/inputval"
	"github.com/dalemusser/wallcharts/internal/app/system/normalize"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateUnit adds a bargaining unit. Administrators only.
func (s *Service) CreateUnit(ctx context.Context, name string, actor scope.Actor) (models.Unit, error) {
	if err := scope.RequireAdmin(scope.Resolve(actor)); err != nil {
		return models.Unit{}, err
	}
	name = normalize.Name(name)
	if name == "" {
		return models.Unit{}, invalid("unit name is required")
	}

	u, err := s.Units.Create(ctx, name)
	if errors.Is(err, unitstore.ErrDuplicateUnit) {
		return models.Unit{}, fmt.Errorf("%w: unit %q already exists", apperr.ErrConflict, name)
	}
	if err != nil {
		return models.Unit{}, err
	}
	s.Audit.Admin(auditlog.EventUnitCreated, actor.UserID, actor.Email, map[string]string{
		"unit_id": u.ID.Hex(),
		"name":    u.Name,
	})
	return u, nil
}

// ListUnits returns all units ordered by name.
func (s *Service) ListUnits(ctx context.Context) ([]models.Unit, error) {
	return s.Units.List(ctx)
}

// ListDepartments returns all departments ordered by name.
func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.Departments.List(ctx)
}

// SetDepartmentUnit attaches a department to a unit. Administrators only.
func (s *Service) SetDepartmentUnit(ctx context.Context, deptID, unitID primitive.ObjectID, actor scope.Actor) error {
	if err := scope.RequireAdmin(scope.Resolve(actor)); err != nil {
		return err
	}
	if _, err := s.Units.GetByID(ctx, unitID); err != nil {
		return notFound(err, "unit", unitID)
	}
	if err := s.Departments.SetUnit(ctx, deptID, unitID); err != nil {
		return notFound(err, "department", deptID)
	}
	s.Audit.Admin(auditlog.EventDepartmentUnit, actor.UserID, actor.Email, map[string]string{
		"department_id": deptID.Hex(),
		"unit_id":       unitID.Hex(),
	})
	return nil
}

// CreateOrGetStructureTest returns the structure test named name, creating
// it dated today when it does not exist. The description of an existing test
// is left alone.
func (s *Service) CreateOrGetStructureTest(ctx context.Context, name, description string) (models.StructureTest, bool, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.StructureTest{}, false, invalid("structure test name is required")
	}
	return s.Tests.GetOrCreate(ctx, models.StructureTest{
		Name:        name,
		Description: htmlsanitize.Sanitize(description),
		Added:       s.today(),
	})
}

// ListStructureTests returns all structure tests, oldest first.
func (s *Service) ListStructureTests(ctx context.Context) ([]models.StructureTest, error) {
	return s.Tests.List(ctx)
}

// UserInput is an administrator's create-or-update of a user.
// ID nil creates. DepartmentID nil makes an administrator. An empty
// Password keeps the current one on update and is rejected on create.
type UserInput struct {
	ID           *primitive.ObjectID `json:"id"`
	Email        string              `json:"email"`
	DepartmentID *primitive.ObjectID `json:"department_id"`
	Password     string              `json:"password"`
}

// UpsertUser creates or updates a user. Administrators only.
func (s *Service) UpsertUser(ctx context.Context, in UserInput, actor scope.Actor) (models.User, error) {
	if err := scope.RequireAdmin(scope.Resolve(actor)); err != nil {
		return models.User{}, err
	}

	email := normalize.Email(in.Email)
	if !inputval.IsValidEmail(email) {
		return models.User{}, invalid("email %q is not a valid address", in.Email)
	}
	if in.ID == nil && in.Password == "" {
		return models.User{}, invalid("password is required for a new user")
	}

	var hash string
	if in.Password != "" {
		if err := authutil.ValidatePassword(in.Password); err != nil {
			return models.User{}, fmt.Errorf("%w: %s", apperr.ErrValidation, err.Error())
		}
		h, err := s.Hasher.HashPassword(in.Password)
		if err != nil {
			return models.User{}, err
		}
		hash = h
	}

	if in.DepartmentID != nil {
		if _, err := s.Departments.GetByID(ctx, *in.DepartmentID); err != nil {
			return models.User{}, notFound(err, "department", *in.DepartmentID)
		}
	}

	var (
		u   models.User
		err error
	)
	if in.ID == nil {
		u, err = s.Users.Create(ctx, models.User{Email: email, PasswordHash: hash, DepartmentID: in.DepartmentID})
	} else {
		u, err = s.Users.Update(ctx, *in.ID, userstore.UserUpdate{
			Email:        email,
			DepartmentID: in.DepartmentID,
			PasswordHash: hash,
		})
		err = notFound(err, "user", *in.ID)
	}
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, fmt.Errorf("%w: a user with email %q already exists", apperr.ErrConflict, email)
	}
	if err != nil {
		return models.User{}, err
	}

	s.Audit.Admin(auditlog.EventUserSaved, actor.UserID, actor.Email, map[string]string{
		"user_id": u.ID.Hex(),
		"email":   u.Email,
		"created": fmt.Sprint(in.ID == nil),
		"role":    scope.RoleFor(u.DepartmentID).String(),
	})
	return u, nil
}

// ListUsers returns every user ordered by email. Administrators only.
func (s *Service) ListUsers(ctx context.Context, actor scope.Actor) ([]models.User, error) {
	if err := scope.RequireAdmin(scope.Resolve(actor)); err != nil {
		return nil, err
	}
	return s.Users.List(ctx)
}
