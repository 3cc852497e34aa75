// internal/domain/models/structuretest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StructureTest is a named organizing campaign or checklist item.
type StructureTest struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Active      bool               `bson:"active" json:"active"`
	Added       time.Time          `bson:"added" json:"added"`
}
