package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/store/queries/rosterqueries"
	workerstore "github.com/dalemusser/wallcharts/internal/app/store/workers"
	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/htmlsanitize"
	"github.com/dalemusser/wallcharts/internal/app/system/inputval"
	"github.com/dalemusser/wallcharts/internal/app/system/normalize"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RosterView is everything the roster page shows for one department.
type RosterView struct {
	Department     *models.Department          `json:"department,omitempty"`
	Workers        []rosterqueries.RosterEntry `json:"workers"`
	WorkerCount    int                         `json:"worker_count"`
	StructureTests []models.StructureTest      `json:"structure_tests"`
	Units          []models.Unit               `json:"units"`
	LastUpdated    *time.Time                  `json:"last_updated,omitempty"`
}

// ListWorkers returns the roster the actor may see. Organizers always get
// their own department whatever target says. Administrators pick a
// department by slug or id; an empty target yields an empty roster.
func (s *Service) ListWorkers(ctx context.Context, actor scope.Actor, target string) (RosterView, error) {
	view := RosterView{Workers: []rosterqueries.RosterEntry{}}
	sc := scope.Resolve(actor)

	var dept *models.Department
	switch {
	case sc.IsAdmin():
		if target = strings.TrimSpace(target); target != "" {
			d, err := s.findDepartment(ctx, target)
			if err != nil {
				return RosterView{}, err
			}
			dept = &d
		}
	default:
		id, ok := sc.DepartmentID()
		if !ok {
			return RosterView{}, fmt.Errorf("%w: no roster access", apperr.ErrForbidden)
		}
		d, err := s.Departments.GetByID(ctx, id)
		if err != nil {
			return RosterView{}, notFound(err, "department", id)
		}
		dept = &d
	}

	if dept != nil {
		entries, err := rosterqueries.ListRoster(ctx, s.DB, dept.ID)
		if err != nil {
			return RosterView{}, err
		}
		view.Department = dept
		view.Workers = entries
	}
	view.WorkerCount = len(view.Workers)

	tests, err := s.Tests.List(ctx)
	if err != nil {
		return RosterView{}, err
	}
	view.StructureTests = tests

	units, err := s.Units.List(ctx)
	if err != nil {
		return RosterView{}, err
	}
	view.Units = units

	var wmScope *primitive.ObjectID
	if s.Config.WatermarkScope == WatermarkDepartment {
		if dept == nil {
			return view, nil
		}
		wmScope = &dept.ID
	}
	if t, ok, err := s.Workers.MaxUpdated(ctx, wmScope); err != nil {
		return RosterView{}, err
	} else if ok {
		view.LastUpdated = &t
	}
	return view, nil
}

// findDepartment resolves an id or slug.
func (s *Service) findDepartment(ctx context.Context, target string) (models.Department, error) {
	if id, err := primitive.ObjectIDFromHex(target); err == nil {
		d, err := s.Departments.GetByID(ctx, id)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.Department{}, err
		}
	}
	d, err := s.Departments.GetBySlug(ctx, target)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Department{}, fmt.Errorf("%w: department %q", apperr.ErrNotFound, target)
	}
	return d, err
}

// GetWorker returns a worker the actor may see.
func (s *Service) GetWorker(ctx context.Context, workerID primitive.ObjectID, actor scope.Actor) (models.Worker, error) {
	w, err := s.Workers.GetByID(ctx, workerID)
	if err != nil {
		return models.Worker{}, notFound(err, "worker", workerID)
	}
	if err := scope.Authorize(scope.Resolve(actor), w.OrganizingDeptID); err != nil {
		return models.Worker{}, err
	}
	return w, nil
}

// NewWorker is a worker added by hand rather than by an import.
type NewWorker struct {
	Name             string              `json:"name"`
	Unit             string              `json:"unit"`
	Contract         string              `json:"contract"`
	DepartmentID     primitive.ObjectID  `json:"department_id"`
	OrganizingDeptID *primitive.ObjectID `json:"organizing_dept_id"`
	PreferredName    string              `json:"preferred_name"`
	Pronouns         string              `json:"pronouns"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
}

// CreateWorker adds a worker outside reconciliation. Administrators only.
// A worker with the same name, unit, department and contract is a conflict,
// never a merge.
func (s *Service) CreateWorker(ctx context.Context, in NewWorker, actor scope.Actor) (models.Worker, error) {
	if err := scope.RequireAdmin(scope.Resolve(actor)); err != nil {
		return models.Worker{}, err
	}

	w := models.Worker{
		Name:          strings.TrimSpace(in.Name),
		Unit:          strings.TrimSpace(in.Unit),
		Contract:      strings.TrimSpace(in.Contract),
		DepartmentID:  in.DepartmentID,
		PreferredName: normalize.Optional(normalize.Name(in.PreferredName)),
		Pronouns:      normalize.Optional(normalize.Name(in.Pronouns)),
		Active:        true,
		Added:         s.today(),
		Updated:       s.today(),
	}
	switch {
	case w.Name == "":
		return models.Worker{}, invalid("worker name is required")
	case w.Unit == "":
		return models.Worker{}, invalid("unit is required")
	case w.Contract == "":
		return models.Worker{}, invalid("contract is required")
	}

	if email := normalize.Email(in.Email); email != "" {
		if !inputval.IsValidEmail(email) {
			return models.Worker{}, invalid("email %q is not a valid address", in.Email)
		}
		w.Email = &email
	}
	if strings.TrimSpace(in.Phone) != "" {
		phone := normalize.Phone(in.Phone)
		if !inputval.IsValidPhone(phone) {
			return models.Worker{}, invalid("phone %q is not a valid number", in.Phone)
		}
		w.Phone = &phone
	}

	if _, err := s.Departments.GetByID(ctx, in.DepartmentID); err != nil {
		return models.Worker{}, notFound(err, "department", in.DepartmentID)
	}
	w.OrganizingDeptID = in.DepartmentID
	if in.OrganizingDeptID != nil && *in.OrganizingDeptID != in.DepartmentID {
		if _, err := s.Departments.GetByID(ctx, *in.OrganizingDeptID); err != nil {
			return models.Worker{}, notFound(err, "department", *in.OrganizingDeptID)
		}
		w.OrganizingDeptID = *in.OrganizingDeptID
	}

	if existing, err := s.Workers.GetByKey(ctx, w.Key()); err == nil {
		return models.Worker{}, fmt.Errorf("%w: worker %q already exists (%s)",
			apperr.ErrConflict, w.Name, existing.ID.Hex())
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Worker{}, err
	}

	created, err := s.Workers.Create(ctx, w)
	if errors.Is(err, workerstore.ErrDuplicateWorker) || errors.Is(err, workerstore.ErrDuplicateContact) {
		return models.Worker{}, fmt.Errorf("%w: %s", apperr.ErrConflict, err.Error())
	}
	if err != nil {
		return models.Worker{}, err
	}

	s.Audit.Roster(auditlog.EventWorkerCreated, actor.UserID, actor.Email, map[string]string{
		"worker_id":     created.ID.Hex(),
		"department_id": created.DepartmentID.Hex(),
	})
	return created, nil
}

// WorkerPatch is an organizer edit. Nil fields are left unchanged and blank
// strings clear the field. OrganizingDeptID may only be set by administrators.
type WorkerPatch struct {
	PreferredName    *string             `json:"preferred_name"`
	Pronouns         *string             `json:"pronouns"`
	Email            *string             `json:"email"`
	Phone            *string             `json:"phone"`
	Notes            *string             `json:"notes"`
	Active           *bool               `json:"active"`
	OrganizingDeptID *primitive.ObjectID `json:"organizing_dept_id"`
}

// EditWorker applies patch to a worker the actor may see. Nothing is written
// when any part of the patch is rejected.
func (s *Service) EditWorker(ctx context.Context, workerID primitive.ObjectID, patch WorkerPatch, actor scope.Actor) error {
	sc := scope.Resolve(actor)
	if patch.OrganizingDeptID != nil {
		if err := scope.RequireAdmin(sc); err != nil {
			return fmt.Errorf("%w: only administrators can reassign a worker's department", apperr.ErrForbidden)
		}
	}

	w, err := s.Workers.GetByID(ctx, workerID)
	if err != nil {
		return notFound(err, "worker", workerID)
	}
	if err := scope.Authorize(sc, w.OrganizingDeptID); err != nil {
		return err
	}

	upd, err := profileUpdate(patch)
	if err != nil {
		return err
	}
	if patch.OrganizingDeptID != nil {
		if _, err := s.Departments.GetByID(ctx, *patch.OrganizingDeptID); err != nil {
			return notFound(err, "department", *patch.OrganizingDeptID)
		}
		upd.OrganizingDeptID = patch.OrganizingDeptID
	}

	if err := s.Workers.UpdateProfile(ctx, workerID, upd); err != nil {
		if errors.Is(err, workerstore.ErrDuplicateContact) {
			return fmt.Errorf("%w: %s", apperr.ErrConflict, err.Error())
		}
		return notFound(err, "worker", workerID)
	}

	s.Audit.Roster(auditlog.EventWorkerEdited, actor.UserID, actor.Email, map[string]string{
		"worker_id": workerID.Hex(),
		"reassigned": fmt.Sprint(patch.OrganizingDeptID != nil &&
			*patch.OrganizingDeptID != w.OrganizingDeptID),
	})
	return nil
}

// profileUpdate normalizes and validates the profile part of a patch.
func profileUpdate(p WorkerPatch) (workerstore.ProfileUpdate, error) {
	var upd workerstore.ProfileUpdate

	text := func(v *string) *string {
		if v == nil {
			return nil
		}
		s := normalize.Name(*v)
		return &s
	}
	upd.PreferredName = text(p.PreferredName)
	upd.Pronouns = text(p.Pronouns)
	upd.Active = p.Active

	if p.Email != nil {
		email := normalize.Email(*p.Email)
		if email != "" && !inputval.IsValidEmail(email) {
			return upd, invalid("email %q is not a valid address", *p.Email)
		}
		upd.Email = &email
	}
	if p.Phone != nil {
		phone := ""
		if strings.TrimSpace(*p.Phone) != "" {
			phone = normalize.Phone(*p.Phone)
			if !inputval.IsValidPhone(phone) {
				return upd, invalid("phone %q is not a valid number", *p.Phone)
			}
		}
		upd.Phone = &phone
	}
	if p.Notes != nil {
		notes := htmlsanitize.PlainText(*p.Notes)
		upd.Notes = &notes
	}
	return upd, nil
}
