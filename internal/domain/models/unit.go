// internal/domain/models/unit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unit is a bargaining unit grouping departments.
type Unit struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"` // folded, unique
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
