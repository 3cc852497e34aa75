// internal/app/store/units/unitstore.go
package unitstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/system/normalize"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateUnit = errors.New("a unit with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("units")}
}

// Create inserts a unit. Names are unique case-insensitively.
func (s *Store) Create(ctx context.Context, name string) (models.Unit, error) {
	u := models.Unit{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      normalize.Slug(name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Unit{}, ErrDuplicateUnit
		}
		return models.Unit{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Unit, error) {
	var u models.Unit
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.Unit{}, err
	}
	return u, nil
}

// List returns all units ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Unit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	units := []models.Unit{}
	if err := cur.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}
