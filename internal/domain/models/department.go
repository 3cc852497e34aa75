// internal/domain/models/department.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is an HR department. It doubles as the access boundary for
// organizers; administrators are not attached to any department.
type Department struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Name      string              `bson:"name" json:"name"`
	NameCI    string              `bson:"name_ci" json:"-"`
	Slug      string              `bson:"slug" json:"slug"`
	UnitID    *primitive.ObjectID `bson:"unit_id,omitempty" json:"unit_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
