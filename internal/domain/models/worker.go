// internal/domain/models/worker.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Worker is one roster entry.
//
// Identity fields (Name, Contract, Unit, DepartmentID) come from the personnel
// feed and form the natural key. Profile fields (PreferredName, Pronouns,
// Email, Phone, Notes, Active) are maintained by organizers and are never
// written by reconciliation.
type Worker struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	PreferredName    *string            `bson:"preferred_name,omitempty" json:"preferred_name,omitempty"`
	Pronouns         *string            `bson:"pronouns,omitempty" json:"pronouns,omitempty"`
	Email            *string            `bson:"email,omitempty" json:"email,omitempty"`
	Phone            *string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes            *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Contract         string             `bson:"contract" json:"contract"`
	Unit             string             `bson:"unit" json:"unit"`
	DepartmentID     primitive.ObjectID `bson:"department_id" json:"department_id"`
	OrganizingDeptID primitive.ObjectID `bson:"organizing_dept_id" json:"organizing_dept_id"`
	Active           bool               `bson:"active" json:"active"`
	Added            time.Time          `bson:"added" json:"added"`   // calendar date, UTC midnight
	Updated          time.Time          `bson:"updated" json:"updated"` // only moves forward
}

// WorkerKey is the natural key of a Worker.
type WorkerKey struct {
	Name         string
	Unit         string
	DepartmentID primitive.ObjectID
	Contract     string
}

// Key returns the worker's natural key.
func (w Worker) Key() WorkerKey {
	return WorkerKey{Name: w.Name, Unit: w.Unit, DepartmentID: w.DepartmentID, Contract: w.Contract}
}

// DisplayName returns the preferred name when set, otherwise the feed name.
func (w Worker) DisplayName() string {
	if w.PreferredName != nil && *w.PreferredName != "" {
		return *w.PreferredName
	}
	return w.Name
}
