package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/wallcharts/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("a user with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID returns the user with the given id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks a user up by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a user. Email must already be normalized.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UserUpdate carries the fields an administrator may change.
// DepartmentID nil makes the user an administrator.
// PasswordHash empty leaves the password unchanged.
type UserUpdate struct {
	Email        string
	DepartmentID *primitive.ObjectID
	PasswordHash string
}

// Update replaces email and department and optionally the password hash.
// Returns mongo.ErrNoDocuments when the user does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (models.User, error) {
	set := bson.M{
		"email":      upd.Email,
		"updated_at": time.Now().UTC(),
	}
	if upd.PasswordHash != "" {
		set["password_hash"] = upd.PasswordHash
	}
	update := bson.M{"$set": set}
	if upd.DepartmentID != nil {
		set["department_id"] = *upd.DepartmentID
	} else {
		update["$unset"] = bson.M{"department_id": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns all users ordered by email.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
