// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collections lists every collection with its validator.
var collections = []struct {
	name   string
	schema func() bson.M
}{
	{"units", func() bson.M { return namedSchema("name", "name_ci", "slug") }},
	{"departments", departmentsSchema},
	{"workers", workersSchema},
	{"structure_tests", func() bson.M { return namedSchema("name", "name_ci") }},
	{"participations", participationsSchema},
	{"users", usersSchema},
}

// EnsureAll creates missing collections and attaches their JSON-Schema
// validators. Servers without collMod support (some DocumentDB versions) get
// the collections without validators. Every collection is attempted; the
// failures are joined into one error.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing := map[string]bool{}
	if names, err := db.ListCollectionNames(ctx, bson.M{}); err == nil {
		for _, n := range names {
			existing[n] = true
		}
	}

	var errs []error
	for _, c := range collections {
		if !existing[c.name] {
			if err := createCollection(ctx, db, c.name); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
				continue
			}
		}
		if err := setValidator(ctx, db, c.name, c.schema()); err != nil {
			if commandFailed(err, []int32{59, 115}, "no such command", "not implemented", "not supported") {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

// createCollection creates name, treating "already exists" as success.
func createCollection(ctx context.Context, db *mongo.Database, name string) error {
	err := db.CreateCollection(ctx, name)
	switch {
	case err == nil:
		zap.L().Info("created collection", zap.String("collection", name))
		return nil
	case commandFailed(err, []int32{48}, "already exists", "namespace exists"):
		return nil
	default:
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

// commandFailed reports whether err is a server command error with one of
// codes, or mentions one of phrases.
func commandFailed(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

// nonBlank matches a string with at least one non-space character.
var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

// namedSchema requires each listed field to be a non-blank string.
func namedSchema(fields ...string) bson.M {
	required := bson.A{}
	props := bson.M{}
	for _, f := range fields {
		required = append(required, f)
		props[f] = nonBlank
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func departmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "slug"},
			"properties": bson.M{
				"name":    nonBlank,
				"name_ci": nonBlank,
				"slug":    bson.M{"bsonType": "string"},
				"unit_id": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func workersSchema() bson.M {
	optString := bson.M{"bsonType": "string"}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "unit", "contract", "department_id", "organizing_dept_id", "active", "added", "updated"},
			"properties": bson.M{
				"name":               nonBlank,
				"unit":               nonBlank,
				"contract":           nonBlank,
				"department_id":      bson.M{"bsonType": "objectId"},
				"organizing_dept_id": bson.M{"bsonType": "objectId"},
				"active":             bson.M{"bsonType": "bool"},
				"added":              bson.M{"bsonType": "date"},
				"updated":            bson.M{"bsonType": "date"},
				"preferred_name":     optString,
				"pronouns":           optString,
				"email":              optString,
				"phone":              optString,
				"notes":              optString,
			},
		},
	}
}

func participationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"worker_id", "structure_test_id"},
			"properties": bson.M{
				"worker_id":         bson.M{"bsonType": "objectId"},
				"structure_test_id": bson.M{"bsonType": "objectId"},
				"created_at":        bson.M{"bsonType": "date"},
			},
		},
	}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "password_hash"},
			"properties": bson.M{
				"email":         nonBlank,
				"password_hash": bson.M{"bsonType": "string"},
				"department_id": bson.M{"bsonType": "objectId"},
			},
		},
	}
}
