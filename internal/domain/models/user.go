// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in.
//
// NOTE:
//   - A nil DepartmentID means the user is an administrator.
//   - PasswordHash is a bcrypt hash of a keyed digest; it is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"password_hash" json:"-"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user has no department, i.e. administrator scope.
func (u User) IsAdmin() bool {
	return u.DepartmentID == nil
}
